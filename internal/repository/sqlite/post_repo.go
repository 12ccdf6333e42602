package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// PostRepo implements PostRepository using SQLite.
type PostRepo struct{ db *sql.DB }

// NewPostRepo constructs a post repository.
func NewPostRepo(db *DB) *PostRepo { return &PostRepo{db: db.SQL} }

const selectPostsWithLikes = `
SELECT p.id, p.title, p.content, p.published, p.owner_id, p.created_at, u.email, COUNT(l.post_id) AS likes
FROM posts p
JOIN users u ON u.id = p.owner_id
LEFT JOIN likes l ON l.post_id = p.id`

// Create inserts a post and fills CreatedAt and the owner projection.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, published, owner_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Content, p.Published, p.OwnerID, toMicros(now),
	)
	if isForeignKeyViolation(err) {
		return errs.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	var email string
	if err := r.db.QueryRowContext(ctx, `SELECT email FROM users WHERE id = ?`, p.OwnerID).Scan(&email); err != nil {
		return fmt.Errorf("select post owner: %w", err)
	}
	p.CreatedAt = now
	p.Owner = model.Owner{ID: p.OwnerID, Email: email}
	return nil
}

// Get selects one post with its like count.
func (r *PostRepo) Get(ctx context.Context, id uuid.UUID) (*model.PostWithLikes, error) {
	pw, err := scanPostWithLikes(r.db.QueryRowContext(ctx,
		selectPostsWithLikes+` WHERE p.id = ? GROUP BY p.id`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select post: %w", err)
	}
	return pw, nil
}

// List selects posts matching the filter, newest first.
func (r *PostRepo) List(ctx context.Context, f model.PostFilter) ([]model.PostWithLikes, error) {
	const q = selectPostsWithLikes + `
WHERE instr(p.title, ?) > 0
  AND (? IS NULL OR p.created_at >= ?)
  AND (? IS NULL OR p.created_at <= ?)
GROUP BY p.id
ORDER BY p.created_at DESC, p.id
LIMIT ? OFFSET ?`
	from, to := nullableMicros(f.From), nullableMicros(f.To)
	rows, err := r.db.QueryContext(ctx, q, f.Search, from, from, to, to, f.Limit, f.Skip)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.PostWithLikes, 0)
	for rows.Next() {
		pw, err := scanPostWithLikes(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *pw)
	}
	return out, rows.Err()
}

// Exists reports whether the post exists.
func (r *PostRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = ?)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("post exists: %w", err)
	}
	return ok, nil
}

// OwnerOf selects the owner id of a post.
func (r *PostRepo) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	if err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM posts WHERE id = ?`, id).Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, errs.ErrPostNotFound
		}
		return uuid.Nil, fmt.Errorf("select post owner: %w", err)
	}
	return owner, nil
}

// Update replaces title, content and published flag of a post.
func (r *PostRepo) Update(ctx context.Context, id uuid.UUID, in model.PostInput) (*model.Post, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, published = ? WHERE id = ?`,
		in.Title, in.Content, in.Published, id)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	} else if n == 0 {
		return nil, errs.ErrPostNotFound
	}

	pw, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &pw.Post, nil
}

// Delete removes a post; likes are removed by ON DELETE CASCADE.
func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return errs.ErrPostNotFound
	}
	return nil
}

func scanPostWithLikes(row scanner) (*model.PostWithLikes, error) {
	var (
		pw      model.PostWithLikes
		created int64
	)
	p := &pw.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.OwnerID, &created, &p.Owner.Email, &pw.Likes); err != nil {
		return nil, err
	}
	p.CreatedAt = fromMicros(created)
	p.Owner.ID = p.OwnerID
	return &pw, nil
}
