// Package detection talks to the external object detection service.
package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"room-service/internal/apperrors"
	"room-service/internal/models"
)

// Detector returns labeled boxes for an image.
type Detector interface {
	Detect(ctx context.Context, filename string, data []byte) (*Response, error)
	CheckHealth(ctx context.Context) error
}

// Response is the inference service's reply.
type Response struct {
	Detections []models.Detection `json:"detections"`
	Width      int                `json:"image_width"`
	Height     int                `json:"image_height"`
	Model      string             `json:"model"`
}

// HTTPDetector posts images as multipart uploads to an inference endpoint.
type HTTPDetector struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewHTTPDetector(url string, logger *zap.Logger) *HTTPDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPDetector{
		url:    strings.TrimRight(url, "/"),
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logger.Named("detector"),
	}
}

func (d *HTTPDetector) Detect(ctx context.Context, filename string, data []byte) (*Response, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, "copy image data")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "close multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url+"/detect", body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrServiceUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(apperrors.ErrServiceUnavailable, "inference failed with status: %d", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	// Older inference builds omit the frame size.
	if out.Width <= 0 || out.Height <= 0 {
		out.Width, out.Height, err = Dimensions(data)
		if err != nil {
			return nil, err
		}
	}

	d.logger.Debug("Detection finished",
		zap.String("file", filename),
		zap.Int("detections", len(out.Detections)),
		zap.Duration("elapsed", time.Since(start)))
	return &out, nil
}

func (d *HTTPDetector) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("detector unhealthy: %d", resp.StatusCode)
	}
	return nil
}

// Dimensions reads the pixel size from an encoded JPEG, PNG or WebP header.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, errors.Wrapf(apperrors.ErrMalformedInput, "unreadable image: %v", err)
	}
	return cfg.Width, cfg.Height, nil
}
