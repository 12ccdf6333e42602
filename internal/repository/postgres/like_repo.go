package postgres

import (
	"context"
	"fmt"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// LikeRepo implements LikeRepository using PostgreSQL.
// The primary key (post_id, user_id) is what guarantees one like per pair.
type LikeRepo struct{ db *DB }

// NewLikeRepo constructs a like repository.
func NewLikeRepo(db *DB) *LikeRepo { return &LikeRepo{db: db} }

// Exists reports whether the user already likes the post.
func (r *LikeRepo) Exists(ctx context.Context, l model.Like) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM likes WHERE post_id=$1 AND user_id=$2)`
	var ok bool
	if err := r.db.Pool.QueryRow(ctx, q, l.PostID, l.UserID).Scan(&ok); err != nil {
		return false, fmt.Errorf("like exists: %w", err)
	}
	return ok, nil
}

// Add inserts a like row.
func (r *LikeRepo) Add(ctx context.Context, l model.Like) error {
	const q = `INSERT INTO likes (post_id, user_id) VALUES ($1, $2)`
	_, err := r.db.Pool.Exec(ctx, q, l.PostID, l.UserID)
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return errs.ErrAlreadyLiked
	}
	if constraint, ok := foreignKeyViolation(err); ok {
		if referencesPost(constraint) {
			return errs.ErrPostNotFound
		}
		return errs.ErrUserNotFound
	}
	return fmt.Errorf("insert like: %w", err)
}

// Remove deletes a like row.
func (r *LikeRepo) Remove(ctx context.Context, l model.Like) error {
	const q = `DELETE FROM likes WHERE post_id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, l.PostID, l.UserID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrLikeNotFound
	}
	return nil
}

// Count returns the number of likes on a post.
func (r *LikeRepo) Count(ctx context.Context, postID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM likes WHERE post_id=$1`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}
