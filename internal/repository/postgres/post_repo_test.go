package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var postCols = []string{"id", "title", "content", "published", "owner_id", "created_at", "email", "likes"}

func TestPostRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	owner := uuid.Must(uuid.NewV4())
	p := &model.Post{ID: uuid.Must(uuid.NewV4()), Title: "t", Content: "c", Published: true, OwnerID: owner}
	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO posts \(id, title, content, published, owner_id\)`).
		WithArgs(p.ID, p.Title, p.Content, p.Published, p.OwnerID).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "email"}).AddRow(created, "o@example.com"))
	require.NoError(t, r.Create(ctx, p))
	require.Equal(t, created, p.CreatedAt)
	require.Equal(t, model.Owner{ID: owner, Email: "o@example.com"}, p.Owner)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs(p.ID, p.Title, p.Content, p.Published, p.OwnerID).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "posts_owner_id_fkey"})
	require.ErrorIs(t, r.Create(ctx, p), errs.ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_Get(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	owner := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`LEFT JOIN likes l ON l.post_id = p.id WHERE p.id = \$1 GROUP BY p.id, u.email`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(postCols).AddRow(id, "t", "c", true, owner, time.Now(), "o@example.com", int64(3)))
	pw, err := r.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, pw.Post.ID)
	require.Equal(t, owner, pw.Post.Owner.ID)
	require.Equal(t, int64(3), pw.Likes)

	mock.ExpectQuery(`WHERE p.id = \$1`).WithArgs(id).WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(ctx, id)
	require.ErrorIs(t, err, errs.ErrPostNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_List(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := model.PostFilter{Limit: 10, Skip: 5, Search: "go", From: &from}

	mock.ExpectQuery(`WHERE strpos\(p.title, \$1\) > 0 .* LIMIT \$4 OFFSET \$5`).
		WithArgs("go", pgxmock.AnyArg(), pgxmock.AnyArg(), 10, 5).
		WillReturnRows(pgxmock.NewRows(postCols).
			AddRow(uuid.Must(uuid.NewV4()), "go tips", "c", true, uuid.Must(uuid.NewV4()), time.Now(), "a@example.com", int64(0)).
			AddRow(uuid.Must(uuid.NewV4()), "go again", "c", false, uuid.Must(uuid.NewV4()), time.Now(), "b@example.com", int64(2)))
	posts, err := r.List(ctx, f)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, int64(2), posts[1].Likes)

	mock.ExpectQuery(`LIMIT \$4 OFFSET \$5`).
		WithArgs("", pgxmock.AnyArg(), pgxmock.AnyArg(), 10, 0).
		WillReturnError(errors.New("boom"))
	_, err = r.List(ctx, model.PostFilter{Limit: 10})
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_ExistsAndOwnerOf(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	owner := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM posts WHERE id=\$1\)`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	ok, err := r.Exists(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectQuery(`SELECT owner_id FROM posts WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(owner))
	got, err := r.OwnerOf(ctx, id)
	require.NoError(t, err)
	require.Equal(t, owner, got)

	mock.ExpectQuery(`SELECT owner_id FROM posts WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.OwnerOf(ctx, id)
	require.ErrorIs(t, err, errs.ErrPostNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	owner := uuid.Must(uuid.NewV4())
	in := model.PostInput{Title: "new", Content: "body", Published: false}

	mock.ExpectQuery(`UPDATE posts SET title=\$2, content=\$3, published=\$4 WHERE id=\$1`).
		WithArgs(id, in.Title, in.Content, in.Published).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "content", "published", "owner_id", "created_at", "email"}).
			AddRow(id, "new", "body", false, owner, time.Now(), "o@example.com"))
	p, err := r.Update(ctx, id, in)
	require.NoError(t, err)
	require.Equal(t, "new", p.Title)
	require.Equal(t, owner, p.Owner.ID)

	mock.ExpectQuery(`UPDATE posts`).
		WithArgs(id, in.Title, in.Content, in.Published).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Update(ctx, id, in)
	require.ErrorIs(t, err, errs.ErrPostNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`DELETE FROM posts WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, id))

	mock.ExpectExec(`DELETE FROM posts WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, id), errs.ErrPostNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
