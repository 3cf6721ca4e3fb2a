package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/anvaya/anvaya-go/internal/config"
)

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader uploads files to a Cloudinary account.
type CloudinaryUploader struct {
	api cloudinaryAPI
}

// NewCloudinaryUploader creates an uploader from account credentials.
func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryUploader{api: &cld.Upload}, nil
}

// Upload streams in.Body to Cloudinary. The client filename is sent along so
// raw assets keep their extension in the delivered URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, in UploadInput) (string, error) {
	params := uploader.UploadParams{
		Folder:       in.Folder,
		ResourceType: string(in.ResourceType),
	}
	if in.Filename != "" {
		params.FilenameOverride = in.Filename
		params.UseFilename = api.Bool(true)
		params.UniqueFilename = api.Bool(true)
	}

	res, err := u.api.Upload(ctx, in.Body, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", ErrEmptyURL
	}
	return res.SecureURL, nil
}
