package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/storage"
)

type UploadRequest struct {
	Feature     domain.UploadFeature `json:"feature"`
	FileName    string               `json:"fileName"`
	ContentType string               `json:"contentType"`
	Size        int64                `json:"size"`
}

type UploadTicket struct {
	ObjectKey string    `json:"objectKey"`
	UploadURL string    `json:"uploadUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadService hands out presigned upload URLs and resolves uploaded
// objects into file descriptions. Keys live under uploads/<uid>/<feature>/.
type UploadService interface {
	CreateUpload(ctx context.Context, user *domain.User, req UploadRequest) (*UploadTicket, error)
	Resolve(ctx context.Context, user *domain.User, feature domain.UploadFeature, objectKey string) (domain.FileInfo, error)
	// DownloadURL presigns a short-lived GET for an object the user owns.
	DownloadURL(ctx context.Context, user *domain.User, feature domain.UploadFeature, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string)
}

type uploadService struct {
	storage storage.FileStorage
	expiry  time.Duration
	log     zerolog.Logger
	clock   Clock
}

func NewUploadService(fs storage.FileStorage, expiry time.Duration, log zerolog.Logger, clock Clock) UploadService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	return &uploadService{
		storage: fs,
		expiry:  expiry,
		log:     log.With().Str("component", "uploads").Logger(),
		clock:   clock,
	}
}

func userPrefix(userID string, feature domain.UploadFeature) string {
	return fmt.Sprintf("uploads/%s/%s/", userID, feature)
}

// CreateUpload checks the declared type and size up front so an oversize
// file is never uploaded.
func (s *uploadService) CreateUpload(ctx context.Context, user *domain.User, req UploadRequest) (*UploadTicket, error) {
	if user == nil {
		return nil, ErrNoSession
	}
	if !req.Feature.Valid() {
		return nil, &generator.ValidationError{Issues: []string{"Unknown upload feature"}}
	}
	info := domain.FileInfo{FileName: req.FileName, ContentType: req.ContentType, Size: req.Size}
	switch req.Feature {
	case domain.UploadBloodTest:
		if err := generator.ValidateBloodTestFile(info); err != nil {
			return nil, err
		}
	case domain.UploadBodyPhoto:
		if !strings.HasPrefix(req.ContentType, "image/") {
			return nil, &generator.ValidationError{Issues: []string{"File must be an image"}}
		}
	}

	name := path.Base(strings.ReplaceAll(req.FileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	key := userPrefix(user.ID, req.Feature) + uuid.NewString() + "-" + name
	url, err := s.storage.GeneratePresignedUploadURL(ctx, key, req.ContentType, s.expiry)
	if err != nil {
		return nil, err
	}
	return &UploadTicket{ObjectKey: key, UploadURL: url, ExpiresAt: s.clock.now().Add(s.expiry).UTC()}, nil
}

func (s *uploadService) Resolve(ctx context.Context, user *domain.User, feature domain.UploadFeature, objectKey string) (domain.FileInfo, error) {
	if user == nil {
		return domain.FileInfo{}, ErrNoSession
	}
	if !strings.HasPrefix(objectKey, userPrefix(user.ID, feature)) {
		return domain.FileInfo{}, ErrForbiddenObject
	}
	meta, err := s.storage.StatObject(ctx, objectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return domain.FileInfo{}, &generator.ValidationError{Issues: []string{"Uploaded file was not found"}}
		}
		return domain.FileInfo{}, err
	}
	return domain.FileInfo{
		ObjectKey:   objectKey,
		FileName:    path.Base(objectKey),
		ContentType: meta.ContentType,
		Size:        meta.Size,
	}, nil
}

func (s *uploadService) DownloadURL(ctx context.Context, user *domain.User, feature domain.UploadFeature, objectKey string) (string, error) {
	if user == nil {
		return "", ErrNoSession
	}
	if objectKey == "" || !strings.HasPrefix(objectKey, userPrefix(user.ID, feature)) {
		return "", ErrForbiddenObject
	}
	return s.storage.GeneratePresignedDownloadURL(ctx, objectKey, s.expiry)
}

// Delete is best effort.
func (s *uploadService) Delete(ctx context.Context, objectKey string) {
	if objectKey == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, objectKey); err != nil {
		s.log.Warn().Err(err).Str("key", objectKey).Msg("failed to delete uploaded object")
	}
}
