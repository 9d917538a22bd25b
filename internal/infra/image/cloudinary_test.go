package image

import (
	"context"
	"errors"
	"testing"

	repo "bodega/internal/repository"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type uploadAPIMock struct{ mock.Mock }

func (m *uploadAPIMock) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	args := m.Called(params)
	res, _ := args.Get(0).(*uploader.UploadResult)
	return res, args.Error(1)
}

func (m *uploadAPIMock) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	args := m.Called(params)
	res, _ := args.Get(0).(*uploader.DestroyResult)
	return res, args.Error(1)
}

func TestCloudinaryStore_Upload(t *testing.T) {
	m := new(uploadAPIMock)
	s := &CloudinaryStore{api: m, folder: "joyas"}

	m.On("Upload", mock.MatchedBy(func(p uploader.UploadParams) bool {
		return p.PublicID == "AN-001" && p.Folder == "joyas" && p.Overwrite != nil && *p.Overwrite
	})).Return(&uploader.UploadResult{SecureURL: "https://res.cloudinary.com/x/AN-001.jpg", PublicID: "joyas/AN-001"}, nil)

	ref, err := s.Upload(context.Background(), "AN-001", []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, repo.ImageRef{URL: "https://res.cloudinary.com/x/AN-001.jpg", ID: "joyas/AN-001"}, ref)
}

func TestCloudinaryStore_UploadErrors(t *testing.T) {
	m := new(uploadAPIMock)
	s := &CloudinaryStore{api: m, folder: "joyas"}

	m.On("Upload", mock.MatchedBy(func(p uploader.UploadParams) bool { return p.PublicID == "net" })).
		Return(nil, errors.New("dial tcp: timeout"))
	m.On("Upload", mock.MatchedBy(func(p uploader.UploadParams) bool { return p.PublicID == "api" })).
		Return(&uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil)

	_, err := s.Upload(context.Background(), "net", nil)
	assert.Error(t, err)
	_, err = s.Upload(context.Background(), "api", nil)
	assert.ErrorContains(t, err, "Invalid image file")
}

func TestCloudinaryStore_Delete(t *testing.T) {
	m := new(uploadAPIMock)
	s := &CloudinaryStore{api: m}

	m.On("Destroy", uploader.DestroyParams{PublicID: "joyas/A"}).Return(&uploader.DestroyResult{Result: "ok"}, nil)
	m.On("Destroy", uploader.DestroyParams{PublicID: "joyas/B"}).Return(&uploader.DestroyResult{Result: "not found"}, nil)

	assert.NoError(t, s.Delete(context.Background(), "joyas/A"))
	assert.ErrorIs(t, s.Delete(context.Background(), "joyas/B"), repo.ErrNotFound)
}
