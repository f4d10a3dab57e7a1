package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"secondhand/internal/errors"
	"secondhand/internal/logger"
	"secondhand/internal/metrics"
)

// StoredImage describes an image written to the upload directory.
type StoredImage struct {
	FileName    string
	Path        string
	ContentType string
	// DataURI is the inline form returned to clients and stored on records.
	DataURI string
}

// UploadService stores uploaded images and normalizes inline ones.
type UploadService interface {
	StoreImage(ctx context.Context, prefix string, file *multipart.FileHeader) (*StoredImage, error)
	// NormalizeBase64 accepts a string (returned verbatim, including
	// JSON-array strings) or a list of strings.
	NormalizeBase64(image interface{}) (interface{}, error)
}

type uploadService struct {
	dir      string
	maxBytes int64
	metrics  *metrics.Metrics
}

// NewUploadService writes files below dir, rejecting files over maxBytes.
func NewUploadService(dir string, maxBytes int64, m *metrics.Metrics) UploadService {
	return &uploadService{dir: dir, maxBytes: maxBytes, metrics: m}
}

// defaultImageExt names uploads whose file name carries no extension.
const defaultImageExt = ".jpg"

func (s *uploadService) StoreImage(ctx context.Context, prefix string, file *multipart.FileHeader) (*StoredImage, error) {
	if file == nil {
		return nil, errors.Validation("file is required")
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.ErrNotAnImage
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, errors.Validation(fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = defaultImageExt
	}
	name := prefix + "_" + uuid.New().String() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	s.metrics.UploadStored(strings.SplitN(prefix, "_", 2)[0])
	logger.FromContext(ctx).Info("image stored", zap.String("file", name), zap.Int("bytes", len(data)))

	return &StoredImage{
		FileName:    name,
		Path:        path,
		ContentType: contentType,
		DataURI:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

func (s *uploadService) NormalizeBase64(image interface{}) (interface{}, error) {
	switch v := image.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, errors.Validation("image is required")
		}
		return v, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, errors.Validation("image list must contain strings")
			}
			out = append(out, str)
		}
		return out, nil
	case []string:
		return v, nil
	case nil:
		return nil, errors.Validation("image is required")
	default:
		return nil, errors.Validation("image must be a string or a list of strings")
	}
}
