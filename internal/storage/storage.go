// Package storage acquires target photographs from wherever they live:
// local disk, HTTP URLs, or Azure blob storage. All fetchers return a
// decoded image; decoding failures are the fetcher's to report.
package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// ImageFetcher resolves a location string to a decoded image.
type ImageFetcher interface {
	FetchImage(ctx context.Context, location string) (image.Image, error)
}

// FileFetcher reads images from the local filesystem.
type FileFetcher struct{}

// NewFileFetcher creates a filesystem-backed fetcher.
func NewFileFetcher() ImageFetcher {
	return FileFetcher{}
}

// FetchImage opens and decodes the file at path. The context is accepted
// for interface symmetry; local reads don't honor cancellation.
func (FileFetcher) FetchImage(_ context.Context, path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}
