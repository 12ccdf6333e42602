package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/and161185/social-api/internal/repository"
)

// DefaultPostLimit is the page size used when a listing does not set one.
const DefaultPostLimit = 10

// PostService manages posts. Only the owner may change or delete a post.
type PostService struct {
	posts repository.PostRepository
}

// NewPostService constructs PostService.
func NewPostService(posts repository.PostRepository) *PostService {
	return &PostService{posts: posts}
}

// List returns posts with their like counts.
func (s *PostService) List(ctx context.Context, f model.PostFilter) ([]model.PostWithLikes, error) {
	if f.Limit < 0 || f.Skip < 0 {
		return nil, fmt.Errorf("%w: negative limit/skip", errs.ErrInvalidInput)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, fmt.Errorf("%w: end date before start date", errs.ErrInvalidInput)
	}
	return s.posts.List(ctx, f)
}

// Get returns one post with its like count.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*model.PostWithLikes, error) {
	return s.posts.Get(ctx, id)
}

// Create stores a new post owned by owner.
func (s *PostService) Create(ctx context.Context, owner uuid.UUID, in model.PostInput) (*model.Post, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: empty title", errs.ErrInvalidInput)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	p := &model.Post{
		ID:        id,
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		OwnerID:   owner,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the post fields if caller owns the post.
func (s *PostService) Update(ctx context.Context, caller, id uuid.UUID, in model.PostInput) (*model.Post, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: empty title", errs.ErrInvalidInput)
	}
	if err := s.checkOwner(ctx, caller, id); err != nil {
		return nil, err
	}
	return s.posts.Update(ctx, id, in)
}

// Delete removes the post if caller owns it.
func (s *PostService) Delete(ctx context.Context, caller, id uuid.UUID) error {
	if err := s.checkOwner(ctx, caller, id); err != nil {
		return err
	}
	return s.posts.Delete(ctx, id)
}

func (s *PostService) checkOwner(ctx context.Context, caller, id uuid.UUID) error {
	owner, err := s.posts.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != caller {
		return errs.ErrForbidden
	}
	return nil
}
