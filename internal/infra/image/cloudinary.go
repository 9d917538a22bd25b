package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	repo "bodega/internal/repository"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// uploadAPI is the part of *uploader.API the store needs.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore keeps photos on the Cloudinary CDN. The public id is folder/name.
type CloudinaryStore struct {
	api    uploadAPI
	folder string
}

var _ repo.ImageStore = (*CloudinaryStore)(nil)

// NewCloudinaryStore expects cloudinary://<key>:<secret>@<cloud>.
func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryStore{api: &cld.Upload, folder: folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, name string, data []byte) (repo.ImageRef, error) {
	res, err := s.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:  name,
		Folder:    s.folder,
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return repo.ImageRef{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return repo.ImageRef{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return repo.ImageRef{}, errors.New("cloudinary upload: empty url")
	}
	return repo.ImageRef{URL: res.SecureURL, ID: res.PublicID}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, id string) error {
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: id})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	if res.Result == "not found" {
		return repo.ErrNotFound
	}
	return nil
}
