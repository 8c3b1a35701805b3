package blog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// RepositoryPort is the persistence contract consumed by the service.
type RepositoryPort interface {
	ListPosts(ctx context.Context, publishedOnly bool) ([]Post, error)
	GetPost(ctx context.Context, id int64) (Post, error)
	GetPostBySlug(ctx context.Context, slug string) (Post, error)
	CreatePost(ctx context.Context, p Post) (Post, error)
	UpdatePost(ctx context.Context, id int64, p Post) (Post, error)
	SetPublished(ctx context.Context, id int64, published bool) error
	DeletePost(ctx context.Context, id int64) error
}

// Auditor records administrative actions.
type Auditor interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

// Service owns blog post rules.
type Service struct {
	repo    RepositoryPort
	auditor Auditor
}

// NewService constructs a service.
func NewService(repo RepositoryPort, auditor Auditor) *Service {
	return &Service{repo: repo, auditor: auditor}
}

// ListPublished returns published posts for the public site.
func (s *Service) ListPublished(ctx context.Context) ([]Post, error) {
	return s.repo.ListPosts(ctx, true)
}

// GetPublishedBySlug returns a single published post.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	return s.repo.GetPostBySlug(ctx, slug)
}

// ListAll returns every post for the admin surface.
func (s *Service) ListAll(ctx context.Context) ([]Post, error) {
	return s.repo.ListPosts(ctx, false)
}

// Get returns a post by id regardless of publication state.
func (s *Service) Get(ctx context.Context, id int64) (Post, error) {
	return s.repo.GetPost(ctx, id)
}

// Create stores a new draft post authored by authorID.
func (s *Service) Create(ctx context.Context, authorID int64, in PostInput) (Post, error) {
	post, err := fromInput(in)
	if err != nil {
		return Post{}, err
	}
	post.AuthorID = authorID
	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return Post{}, err
	}
	s.audit(ctx, authorID, "post.create", created.ID)
	return created, nil
}

// Update rewrites a post's content, regenerating its slug from the title.
func (s *Service) Update(ctx context.Context, actorID, id int64, in PostInput) (Post, error) {
	post, err := fromInput(in)
	if err != nil {
		return Post{}, err
	}
	updated, err := s.repo.UpdatePost(ctx, id, post)
	if err != nil {
		return Post{}, err
	}
	s.audit(ctx, actorID, "post.update", id)
	return updated, nil
}

// SetPublished publishes or unpublishes a post.
func (s *Service) SetPublished(ctx context.Context, actorID, id int64, published bool) error {
	if err := s.repo.SetPublished(ctx, id, published); err != nil {
		return err
	}
	action := "post.publish"
	if !published {
		action = "post.unpublish"
	}
	s.audit(ctx, actorID, action, id)
	return nil
}

// Delete removes a post.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, "post.delete", id)
	return nil
}

func (s *Service) audit(ctx context.Context, actorID int64, action string, entityID int64) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "post",
		EntityID: strconv.FormatInt(entityID, 10),
	})
}

func fromInput(in PostInput) (Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Post{}, fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return Post{}, fmt.Errorf("%w: body is required", shared.ErrValidation)
	}
	return Post{
		Title:   title,
		Slug:    shared.Slugify(title),
		Excerpt: strings.TrimSpace(in.Excerpt),
		Body:    body,
	}, nil
}
