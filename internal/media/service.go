package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wayfarer-travel/wayfarer/internal/platform/blob"
	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// MaxUploadBytes caps a single upload.
const MaxUploadBytes = 20 << 20

var allowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"image/gif":       {},
	"application/pdf": {},
}

// RepositoryPort is the persistence contract consumed by the service.
type RepositoryPort interface {
	ListAssets(ctx context.Context) ([]Asset, error)
	GetAsset(ctx context.Context, id int64) (Asset, error)
	CreateAsset(ctx context.Context, a Asset) (Asset, error)
	DeleteAsset(ctx context.Context, id int64) error
}

// Auditor records administrative actions.
type Auditor interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

// Service owns the media library.
type Service struct {
	logger  *slog.Logger
	repo    RepositoryPort
	store   blob.Store
	auditor Auditor
}

// NewService constructs a service.
func NewService(logger *slog.Logger, repo RepositoryPort, store blob.Store, auditor Auditor) *Service {
	return &Service{logger: logger, repo: repo, store: store, auditor: auditor}
}

// List returns all assets.
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	return s.repo.ListAssets(ctx)
}

// Get returns an asset by id.
func (s *Service) Get(ctx context.Context, id int64) (Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

// Upload stores the file in the object store and records it. Keys are
// random so uploads never collide or overwrite.
func (s *Service) Upload(ctx context.Context, uploaderID int64, fileName, contentType string, size int64, content io.Reader) (Asset, error) {
	if size <= 0 || size > MaxUploadBytes {
		return Asset{}, fmt.Errorf("%w: file size must be between 1 byte and %d bytes", shared.ErrValidation, MaxUploadBytes)
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return Asset{}, fmt.Errorf("%w: unsupported content type %q", shared.ErrValidation, contentType)
	}
	cleanName := path.Base(strings.TrimSpace(fileName))
	if cleanName == "" || cleanName == "." || cleanName == "/" {
		return Asset{}, fmt.Errorf("%w: file name is required", shared.ErrValidation)
	}

	key := uuid.NewString() + path.Ext(cleanName)
	url, err := s.store.Put(ctx, key, content, contentType)
	if err != nil {
		return Asset{}, fmt.Errorf("store upload %q: %w", cleanName, err)
	}

	asset, err := s.repo.CreateAsset(ctx, Asset{
		UploaderID:  uploaderID,
		Key:         key,
		FileName:    cleanName,
		ContentType: contentType,
		SizeBytes:   size,
		URL:         url,
	})
	if err != nil {
		// The object is orphaned if the record fails, clean it up.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("delete orphaned upload", slog.String("key", key), slog.Any("error", delErr))
		}
		return Asset{}, err
	}

	s.audit(ctx, uploaderID, "media.upload", asset.ID)
	return asset, nil
}

// Delete removes both the record and the stored object.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	asset, err := s.repo.GetAsset(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAsset(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, asset.Key); err != nil {
		s.logger.Error("delete stored object", slog.String("key", asset.Key), slog.Any("error", err))
	}
	s.audit(ctx, actorID, "media.delete", id)
	return nil
}

func (s *Service) audit(ctx context.Context, actorID int64, action string, entityID int64) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "media_asset",
		EntityID: strconv.FormatInt(entityID, 10),
	})
}
