package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// PostRepo implements PostRepository using PostgreSQL.
type PostRepo struct{ db *DB }

// NewPostRepo constructs a post repository.
func NewPostRepo(db *DB) *PostRepo { return &PostRepo{db: db} }

// like counts are always computed from the ledger at query time
const selectPostsWithLikes = `
SELECT p.id, p.title, p.content, p.published, p.owner_id, p.created_at, u.email, COUNT(l.post_id) AS likes
FROM posts p
JOIN users u ON u.id = p.owner_id
LEFT JOIN likes l ON l.post_id = p.id`

// Create inserts a post and fills CreatedAt and the owner projection.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	const q = `
WITH ins AS (
  INSERT INTO posts (id, title, content, published, owner_id)
  VALUES ($1, $2, $3, $4, $5)
  RETURNING owner_id, created_at
)
SELECT ins.created_at, u.email FROM ins JOIN users u ON u.id = ins.owner_id`
	var email string
	err := r.db.Pool.QueryRow(ctx, q, p.ID, p.Title, p.Content, p.Published, p.OwnerID).Scan(&p.CreatedAt, &email)
	if _, ok := foreignKeyViolation(err); ok {
		return errs.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.Owner = model.Owner{ID: p.OwnerID, Email: email}
	return nil
}

// Get selects one post with its like count.
func (r *PostRepo) Get(ctx context.Context, id uuid.UUID) (*model.PostWithLikes, error) {
	const q = selectPostsWithLikes + `
WHERE p.id = $1
GROUP BY p.id, u.email`
	pw, err := scanPostWithLikes(r.db.Pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
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
WHERE strpos(p.title, $1) > 0
  AND ($2::timestamptz IS NULL OR p.created_at >= $2)
  AND ($3::timestamptz IS NULL OR p.created_at <= $3)
GROUP BY p.id, u.email
ORDER BY p.created_at DESC, p.id
LIMIT $4 OFFSET $5`
	rows, err := r.db.Pool.Query(ctx, q, f.Search, f.From, f.To, f.Limit, f.Skip)
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
	const q = `SELECT EXISTS (SELECT 1 FROM posts WHERE id=$1)`
	var ok bool
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("post exists: %w", err)
	}
	return ok, nil
}

// OwnerOf selects the owner id of a post.
func (r *PostRepo) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	const q = `SELECT owner_id FROM posts WHERE id=$1`
	var owner uuid.UUID
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&owner); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, errs.ErrPostNotFound
		}
		return uuid.Nil, fmt.Errorf("select post owner: %w", err)
	}
	return owner, nil
}

// Update replaces title, content and published flag of a post.
func (r *PostRepo) Update(ctx context.Context, id uuid.UUID, in model.PostInput) (*model.Post, error) {
	const q = `
WITH upd AS (
  UPDATE posts SET title=$2, content=$3, published=$4
  WHERE id=$1
  RETURNING id, title, content, published, owner_id, created_at
)
SELECT upd.id, upd.title, upd.content, upd.published, upd.owner_id, upd.created_at, u.email
FROM upd JOIN users u ON u.id = upd.owner_id`
	var p model.Post
	err := r.db.Pool.QueryRow(ctx, q, id, in.Title, in.Content, in.Published).
		Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.OwnerID, &p.CreatedAt, &p.Owner.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	p.Owner.ID = p.OwnerID
	return &p, nil
}

// Delete removes a post; likes are removed by ON DELETE CASCADE.
func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM posts WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrPostNotFound
	}
	return nil
}

func scanPostWithLikes(row pgx.Row) (*model.PostWithLikes, error) {
	var pw model.PostWithLikes
	p := &pw.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.OwnerID, &p.CreatedAt, &p.Owner.Email, &pw.Likes); err != nil {
		return nil, err
	}
	p.Owner.ID = p.OwnerID
	return &pw, nil
}
