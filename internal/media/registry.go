package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"sponsors/pkg/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Repository interface {
	Media(ctx context.Context, id string) (*types.Media, error)
	CreateMedia(ctx context.Context, media *types.Media) error
	MarkUploaded(ctx context.Context, id, storageKey, contentType string, size int64, at time.Time) error
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Registry hands out media slots and accepts the files uploaded into them.
type Registry struct {
	logger    logrus.FieldLogger
	repo      Repository
	objects   ObjectStore
	keyPrefix string
	urlTTL    time.Duration

	now   func() time.Time
	newID func() string
}

func NewRegistry(logger logrus.FieldLogger, repo Repository, objects ObjectStore, keyPrefix string, urlTTL time.Duration) *Registry {
	return &Registry{
		logger:    logger,
		repo:      repo,
		objects:   objects,
		keyPrefix: keyPrefix,
		urlTTL:    urlTTL,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (r *Registry) Register(ctx context.Context, reg types.MediaRegistration) (string, error) {
	extensions := make([]string, 0, len(reg.ValidExtensions))
	for _, ext := range reg.ValidExtensions {
		extensions = append(extensions, strings.ToLower(ext))
	}

	media := &types.Media{
		ID:              r.newID(),
		Alias:           reg.Alias,
		MaxSize:         reg.MaxSize,
		AllowsRewrite:   reg.AllowsRewrite,
		ValidExtensions: extensions,
		CreatedAt:       r.now(),
	}

	if err := r.repo.CreateMedia(ctx, media); err != nil {
		return "", err
	}

	r.logger.WithFields(logrus.Fields{
		"media_id": media.ID,
		"alias":    media.Alias,
	}).Info("media registered")

	return media.ID, nil
}

// Upload stores body as the file for media id. The extension is taken from
// filename, or derived from contentType when filename has none.
func (r *Registry) Upload(ctx context.Context, id, filename, contentType string, body io.Reader) (*types.Media, error) {
	media, err := r.repo.Media(ctx, id)
	if err != nil {
		return nil, err
	}

	if media.UploadedAt != nil && !media.AllowsRewrite {
		return nil, types.ErrMediaExists
	}

	ext := extensionFor(filename, contentType, media.ValidExtensions)
	if ext == "" {
		return nil, types.ErrMediaExtension
	}

	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	data, err := io.ReadAll(io.LimitReader(body, media.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read media body: %w", err)
	}
	if int64(len(data)) > media.MaxSize {
		return nil, types.ErrMediaTooLarge
	}

	key := r.keyPrefix + media.Alias + ext
	if err := r.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}

	// A rewrite with a different extension leaves the old object behind.
	if media.StorageKey != nil && *media.StorageKey != key {
		if err := r.objects.Delete(ctx, *media.StorageKey); err != nil {
			r.logger.WithError(err).WithField("storage_key", *media.StorageKey).Warn("failed to delete replaced media object")
		}
	}

	now := r.now()
	if err := r.repo.MarkUploaded(ctx, media.ID, key, contentType, int64(len(data)), now); err != nil {
		return nil, err
	}

	size := int64(len(data))
	media.StorageKey = &key
	media.ContentType = &contentType
	media.SizeBytes = &size
	media.UploadedAt = &now

	return media, nil
}

// URL returns a short lived download URL for an uploaded media file.
func (r *Registry) URL(ctx context.Context, id string) (string, error) {
	media, err := r.repo.Media(ctx, id)
	if err != nil {
		return "", err
	}

	if media.StorageKey == nil || media.UploadedAt == nil {
		return "", types.ErrMediaNotFound
	}

	return r.objects.PresignGet(ctx, *media.StorageKey, r.urlTTL)
}

func extensionFor(filename, contentType string, valid []string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if slices.Contains(valid, ext) {
			return ext
		}
		return ""
	}

	if contentType == "" {
		return ""
	}

	exts, err := mime.ExtensionsByType(contentType)
	if err != nil {
		return ""
	}

	// Prefer the registration's own ordering over the mime table's.
	for _, v := range valid {
		if slices.Contains(exts, v) {
			return v
		}
	}

	return ""
}
