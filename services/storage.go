package services

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"photo-booking-server/config"
	"photo-booking-server/types"
)

// StorageUploader abstracts the blob storage service holding contract
// documents and delivered media.
type StorageUploader interface {
	// UploadDocument stores a raw document and returns its durable URL.
	UploadDocument(ctx context.Context, publicID string, r io.Reader) (string, error)
	// UploadMedia stores a media file under the given folder.
	UploadMedia(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

// CloudinaryStorage implements StorageUploader over Cloudinary.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cfg config.CloudinaryConfig) (*CloudinaryStorage, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{cld: cld}, nil
}

func (s *CloudinaryStorage) UploadDocument(ctx context.Context, publicID string, r io.Reader) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       "contracts",
		ResourceType: "raw",
	})
	if err != nil {
		return "", types.NewTransientError("failed to upload document", err)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStorage) UploadMedia(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         folder,
		UseFilename:    boolPtr(true),
		UniqueFilename: boolPtr(true),
		ResourceType:   "auto",
	})
	if err != nil {
		return "", types.NewTransientError("failed to upload media file", err)
	}
	return resp.SecureURL, nil
}

func boolPtr(b bool) *bool { return &b }
