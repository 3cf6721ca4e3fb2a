// Package storage uploads certificate files to durable object storage and
// returns their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/anvaya/anvaya-go/internal/config"
)

// CertificateFolder is the folder all certificates are uploaded into.
const CertificateFolder = "student_certificates"

var ErrEmptyURL = errors.New("storage returned an empty url")

// ResourceType tells the backend how to treat an uploaded file.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceRaw   ResourceType = "raw"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// ClassifyResource returns ResourceImage for common image extensions and
// ResourceRaw for everything else. Matching is case-insensitive.
func ClassifyResource(filename string) ResourceType {
	if imageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return ResourceImage
	}
	return ResourceRaw
}

// UploadInput describes one file to upload.
type UploadInput struct {
	Filename     string
	ContentType  string
	Size         int64
	Body         io.Reader
	Folder       string
	ResourceType ResourceType
}

// Uploader stores a file and returns a URL where it can be fetched.
type Uploader interface {
	Upload(ctx context.Context, in UploadInput) (string, error)
}

// New builds the uploader selected by cfg.UploadBackend.
func New(ctx context.Context, cfg config.Config) (Uploader, error) {
	switch cfg.UploadBackend {
	case config.UploadCloudinary:
		u, err := NewCloudinaryUploader(cfg.Cloudinary)
		if err != nil {
			return nil, err
		}
		return u, nil
	case config.UploadS3:
		u, err := NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.UploadBackend)
	}
}
