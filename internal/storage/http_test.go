package storage

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestHTTPFetcher_Success(t *testing.T) {
	body := pngBytes(t, 12, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	img, err := NewHTTPFetcher(5 * time.Second).FetchImage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 8 {
		t.Errorf("decoded %dx%d, want 12x8", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	body := pngBytes(t, 4, 4)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	img, err := NewHTTPFetcher(10 * time.Second).FetchImage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchImage after retries: %v", err)
	}
	if img == nil || calls.Load() != 3 {
		t.Errorf("made %d calls, want 3", calls.Load())
	}
}

func TestHTTPFetcher_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher(5 * time.Second).FetchImage(context.Background(), srv.URL); err == nil {
		t.Fatal("want error for 404 response")
	}
	if calls.Load() != 1 {
		t.Errorf("made %d calls for a 404, want 1", calls.Load())
	}
}

func TestHTTPFetcher_BadImageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher(5 * time.Second).FetchImage(context.Background(), srv.URL); err == nil {
		t.Fatal("want decode error for non-image body")
	}
}

func TestFileFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, pngBytes(t, 6, 6), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	img, err := NewFileFetcher().FetchImage(context.Background(), path)
	if err != nil {
		t.Fatalf("FetchImage: %v", err)
	}
	if img.Bounds().Dx() != 6 {
		t.Errorf("width = %d, want 6", img.Bounds().Dx())
	}

	if _, err := NewFileFetcher().FetchImage(context.Background(), filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("want error for missing file")
	}
}
