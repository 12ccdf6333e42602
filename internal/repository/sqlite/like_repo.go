package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// LikeRepo implements LikeRepository using SQLite.
// The composite primary key (post_id, user_id) guarantees one like per pair.
type LikeRepo struct{ db *sql.DB }

// NewLikeRepo constructs a like repository.
func NewLikeRepo(db *DB) *LikeRepo { return &LikeRepo{db: db.SQL} }

// Exists reports whether the user already likes the post.
func (r *LikeRepo) Exists(ctx context.Context, l model.Like) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE post_id = ? AND user_id = ?)`, l.PostID, l.UserID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("like exists: %w", err)
	}
	return ok, nil
}

// Add inserts a like row.
func (r *LikeRepo) Add(ctx context.Context, l model.Like) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO likes (post_id, user_id) VALUES (?, ?)`, l.PostID, l.UserID)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return errs.ErrAlreadyLiked
	case isForeignKeyViolation(err):
		// SQLite does not name the violated key; user ids come from verified tokens
		return errs.ErrPostNotFound
	default:
		return fmt.Errorf("insert like: %w", err)
	}
}

// Remove deletes a like row.
func (r *LikeRepo) Remove(ctx context.Context, l model.Like) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE post_id = ? AND user_id = ?`, l.PostID, l.UserID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if n == 0 {
		return errs.ErrLikeNotFound
	}
	return nil
}

// Count returns the number of likes on a post.
func (r *LikeRepo) Count(ctx context.Context, postID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}
