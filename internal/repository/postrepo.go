package repository

import (
	"context"

	"github.com/and161185/social-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// PostRepository provides access to posts and their query-time like counts.
type PostRepository interface {
	// Create inserts a new post and fills server-side fields (created_at, owner).
	Create(ctx context.Context, p *model.Post) error
	// Get returns a post with its like count.
	Get(ctx context.Context, id uuid.UUID) (*model.PostWithLikes, error)
	// List returns posts matching the filter with their like counts.
	List(ctx context.Context, f model.PostFilter) ([]model.PostWithLikes, error)
	// Exists reports whether a post with the id exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// OwnerOf returns the owner of a post.
	OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	// Update replaces the mutable fields of a post.
	Update(ctx context.Context, id uuid.UUID, in model.PostInput) (*model.Post, error)
	// Delete removes a post; its likes go with it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LikeRepository stores the like ledger. The store enforces one row per (post, user).
type LikeRepository interface {
	// Exists reports whether the pair is already liked.
	Exists(ctx context.Context, l model.Like) (bool, error)
	// Add inserts a like; a duplicate pair yields errs.ErrAlreadyLiked.
	Add(ctx context.Context, l model.Like) error
	// Remove deletes a like; a missing pair yields errs.ErrLikeNotFound.
	Remove(ctx context.Context, l model.Like) error
	// Count returns the number of likes on a post.
	Count(ctx context.Context, postID uuid.UUID) (int64, error)
}
