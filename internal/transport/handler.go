// Package transport exposes the scoring pipeline over HTTP.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shotmetrics/target-score/internal/apperrors"
	"github.com/shotmetrics/target-score/internal/config"
	"github.com/shotmetrics/target-score/internal/detection"
	"github.com/shotmetrics/target-score/internal/logger"
	"github.com/shotmetrics/target-score/internal/overlay"
	"github.com/shotmetrics/target-score/internal/pipeline"
	"github.com/shotmetrics/target-score/internal/scoring"
	"github.com/shotmetrics/target-score/internal/storage"
	"github.com/shotmetrics/target-score/internal/target"
)

// ManualCalibration carries the two user-picked points of a manual
// calibration: the target center and any point on the black-area edge.
type ManualCalibration struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	EdgeX   float64 `json:"edge_x"`
	EdgeY   float64 `json:"edge_y"`
}

// ScoreRequest is the POST /score payload.
type ScoreRequest struct {
	URL              string             `json:"url" binding:"required,url"`
	Target           string             `json:"target,omitempty"`
	ApplyPerspective bool               `json:"apply_perspective,omitempty"`
	Calibration      *ManualCalibration `json:"calibration,omitempty"`
	IncludeOverlay   bool               `json:"include_overlay,omitempty"`
}

// ScoreResponse is the POST /score result.
type ScoreResponse struct {
	ID               string                      `json:"id"`
	Target           string                      `json:"target"`
	Calibration      detection.TargetCalibration `json:"calibration"`
	Shots            []scoring.ScoredHole        `json:"shots"`
	Summary          scoring.Summary             `json:"summary"`
	Overlay          *overlay.Result             `json:"overlay,omitempty"`
	ProcessingTimeMs int64                       `json:"processing_time_ms"`
}

// ErrorResponse is the JSON body of every error status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler wires the HTTP routes. targets maps request names to loaded
// target definitions; defaultTarget is used when a request names none.
func NewHandler(fetcher storage.ImageFetcher, targets map[string]*target.Config, defaultTarget string, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/targets", listTargets(targets))
	r.POST("/score", scoreTarget(fetcher, targets, defaultTarget, cfg))

	return r
}

func scoreTarget(fetcher storage.ImageFetcher, targets map[string]*target.Config, defaultTarget string, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing score request")

		var req ScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if err := validateImageURL(req.URL); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid image URL", err)
			return
		}

		targetName := req.Target
		if targetName == "" {
			targetName = defaultTarget
		}
		targetCfg, ok := targets[targetName]
		if !ok {
			err := apperrors.NewNotFoundError(fmt.Sprintf("unknown target %q", targetName), nil)
			respondError(c, err.StatusCode, "unknown target", err)
			return
		}

		img, err := fetcher.FetchImage(ctx, req.URL)
		if err != nil {
			var fetchErr *apperrors.AppError
			if errors.Is(err, context.DeadlineExceeded) {
				fetchErr = apperrors.NewTimeoutError("Image fetch timeout", err)
			} else {
				fetchErr = apperrors.NewNetworkError("Failed to fetch image", err)
			}
			logger.WithError(fetchErr).WithField("url", req.URL).Error("Failed to fetch image")
			respondError(c, fetchErr.StatusCode, "failed to fetch image", fetchErr)
			return
		}

		opts := pipeline.Options{ApplyPerspective: req.ApplyPerspective}
		if req.Calibration != nil {
			manual := detection.CalibrationFromPoints(
				req.Calibration.CenterX, req.Calibration.CenterY,
				req.Calibration.EdgeX, req.Calibration.EdgeY,
				targetCfg,
			)
			opts.Manual = &manual
		}

		result := pipeline.Process(img, targetCfg, opts)

		resp := ScoreResponse{
			ID:               uuid.NewString(),
			Target:           targetName,
			Calibration:      result.Calibration,
			Shots:            result.Scored,
			Summary:          result.Summary,
			ProcessingTimeMs: time.Since(startTime).Milliseconds(),
		}

		if req.IncludeOverlay {
			rendered, err := overlay.Render(result.ColorRef, result.Calibration, targetCfg, result.Scored)
			if err != nil {
				procErr := apperrors.NewProcessingError("Failed to render overlay", err)
				respondError(c, procErr.StatusCode, "failed to render overlay", procErr)
				return
			}
			resp.Overlay = rendered
		}

		logger.WithFields(logrus.Fields{
			"id":                 resp.ID,
			"target":             targetName,
			"shots":              resp.Summary.ShotCount,
			"total":              resp.Summary.Total,
			"processing_time_ms": resp.ProcessingTimeMs,
		}).Info("Score request completed")

		c.JSON(http.StatusOK, resp)
	}
}

// TargetInfo is one entry of the GET /targets listing.
type TargetInfo struct {
	Name                string  `json:"name"`
	DisplayName         string  `json:"display_name"`
	BulletDiameterMm    float64 `json:"bullet_diameter_mm"`
	BlackAreaDiameterMm float64 `json:"black_area_diameter_mm"`
	RingCount           int     `json:"ring_count"`
}

func listTargets(targets map[string]*target.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		infos := make([]TargetInfo, 0, len(targets))
		for name, cfg := range targets {
			infos = append(infos, TargetInfo{
				Name:                name,
				DisplayName:         cfg.Name,
				BulletDiameterMm:    cfg.BulletDiameterMm,
				BlackAreaDiameterMm: cfg.BlackAreaDiameterMm,
				RingCount:           len(cfg.Rings),
			})
		}
		c.JSON(http.StatusOK, gin.H{"targets": infos})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func validateImageURL(imageURL string) error {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}
	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}
	return nil
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
