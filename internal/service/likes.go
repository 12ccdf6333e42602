package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/and161185/social-api/internal/repository"
)

// LikeService is the like ledger: at most one like per (post, user), toggled on request.
type LikeService struct {
	posts repository.PostRepository
	likes repository.LikeRepository
}

// NewLikeService constructs LikeService.
func NewLikeService(posts repository.PostRepository, likes repository.LikeRepository) *LikeService {
	return &LikeService{posts: posts, likes: likes}
}

// Toggle adds (DoLike) or removes (Unlike) the user's like on a post.
//
// Errors: errs.ErrPostNotFound when the post is gone, errs.ErrAlreadyLiked on a
// second like, errs.ErrLikeNotFound when removing a like that does not exist.
// The existence check below is only a fast path; the store's unique key decides
// between concurrent likes of the same pair.
func (s *LikeService) Toggle(ctx context.Context, l model.Like, dir model.LikeDir) error {
	if dir != model.DoLike && dir != model.Unlike {
		return fmt.Errorf("%w: dir must be 0 or 1, got %d", errs.ErrInvalidInput, dir)
	}

	ok, err := s.posts.Exists(ctx, l.PostID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.ErrPostNotFound
	}

	if dir == model.Unlike {
		return s.likes.Remove(ctx, l)
	}

	liked, err := s.likes.Exists(ctx, l)
	if err != nil {
		return err
	}
	if liked {
		return errs.ErrAlreadyLiked
	}
	return s.likes.Add(ctx, l)
}

// Count returns the current number of likes on a post.
func (s *LikeService) Count(ctx context.Context, postID uuid.UUID) (int64, error) {
	return s.likes.Count(ctx, postID)
}
