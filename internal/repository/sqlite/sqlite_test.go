package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := New(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	return db
}

func seedUser(t *testing.T, r *UserRepo, email string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.Must(uuid.NewV4()), Email: email, PasswordHash: "$2a$04$hash"}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func seedPost(t *testing.T, r *PostRepo, owner uuid.UUID, title string) *model.Post {
	t.Helper()
	p := &model.Post{ID: uuid.Must(uuid.NewV4()), Title: title, Content: "c", Published: true, OwnerID: owner}
	require.NoError(t, r.Create(context.Background(), p))
	return p
}

func TestUserRepo(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()

	phone := "+15550100"
	u := &model.User{ID: uuid.Must(uuid.NewV4()), Email: "a@example.com", PasswordHash: "h", PhoneNumber: &phone}
	require.NoError(t, r.Create(ctx, u))
	require.False(t, u.CreatedAt.IsZero())

	dup := &model.User{ID: uuid.Must(uuid.NewV4()), Email: "a@example.com", PasswordHash: "h"}
	require.ErrorIs(t, r.Create(ctx, dup), errs.ErrAlreadyExists)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, phone, *got.PhoneNumber)
	require.True(t, u.CreatedAt.Equal(got.CreatedAt))

	got, err = r.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = r.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, errs.ErrUserNotFound)

	seedUser(t, r, "b@example.com")
	users, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Nil(t, users[1].PhoneNumber)
}

func TestPostRepo(t *testing.T) {
	db := newTestDB(t)
	users, posts, likes := NewUserRepo(db), NewPostRepo(db), NewLikeRepo(db)
	ctx := context.Background()

	owner := seedUser(t, users, "o@example.com")
	p := seedPost(t, posts, owner.ID, "hello go")
	require.Equal(t, "o@example.com", p.Owner.Email)

	orphan := &model.Post{ID: uuid.Must(uuid.NewV4()), Title: "x", OwnerID: uuid.Must(uuid.NewV4())}
	require.ErrorIs(t, posts.Create(ctx, orphan), errs.ErrUserNotFound)

	fan := seedUser(t, users, "f@example.com")
	require.NoError(t, likes.Add(ctx, model.Like{PostID: p.ID, UserID: fan.ID}))

	pw, err := posts.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), pw.Likes)
	require.True(t, pw.Post.Published)

	_, err = posts.Get(ctx, uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, errs.ErrPostNotFound)

	ok, err := posts.Exists(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ownerID, err := posts.OwnerOf(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, owner.ID, ownerID)

	updated, err := posts.Update(ctx, p.ID, model.PostInput{Title: "renamed", Content: "body", Published: false})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)
	require.False(t, updated.Published)

	_, err = posts.Update(ctx, uuid.Must(uuid.NewV4()), model.PostInput{Title: "x"})
	require.ErrorIs(t, err, errs.ErrPostNotFound)

	require.NoError(t, posts.Delete(ctx, p.ID))
	require.ErrorIs(t, posts.Delete(ctx, p.ID), errs.ErrPostNotFound)

	n, err := likes.Count(ctx, p.ID)
	require.NoError(t, err)
	require.Zero(t, n, "likes cascade with the post")
}

func TestPostRepo_List(t *testing.T) {
	db := newTestDB(t)
	users, posts := NewUserRepo(db), NewPostRepo(db)
	ctx := context.Background()

	owner := seedUser(t, users, "o@example.com")
	first := seedPost(t, posts, owner.ID, "go basics")
	time.Sleep(2 * time.Millisecond)
	seedPost(t, posts, owner.ID, "rust basics")
	time.Sleep(2 * time.Millisecond)
	last := seedPost(t, posts, owner.ID, "advanced go")

	all, err := posts.List(ctx, model.PostFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, last.ID, all[0].Post.ID, "newest first")

	goPosts, err := posts.List(ctx, model.PostFilter{Limit: 10, Search: "go"})
	require.NoError(t, err)
	require.Len(t, goPosts, 2)

	// search is case sensitive
	none, err := posts.List(ctx, model.PostFilter{Limit: 10, Search: "Go"})
	require.NoError(t, err)
	require.Empty(t, none)

	page, err := posts.List(ctx, model.PostFilter{Limit: 1, Skip: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, first.ID, page[0].Post.ID)

	to := first.CreatedAt
	early, err := posts.List(ctx, model.PostFilter{Limit: 10, To: &to})
	require.NoError(t, err)
	require.Len(t, early, 1)

	from := last.CreatedAt
	late, err := posts.List(ctx, model.PostFilter{Limit: 10, From: &from})
	require.NoError(t, err)
	require.Len(t, late, 1)
	require.Equal(t, last.ID, late[0].Post.ID)
}

func TestLikeRepo(t *testing.T) {
	db := newTestDB(t)
	users, posts, likes := NewUserRepo(db), NewPostRepo(db), NewLikeRepo(db)
	ctx := context.Background()

	u := seedUser(t, users, "u@example.com")
	p := seedPost(t, posts, u.ID, "t")
	l := model.Like{PostID: p.ID, UserID: u.ID}

	ok, err := likes.Exists(ctx, l)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, likes.Add(ctx, l))
	require.ErrorIs(t, likes.Add(ctx, l), errs.ErrAlreadyLiked)

	ok, err = likes.Exists(ctx, l)
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, likes.Add(ctx, model.Like{PostID: uuid.Must(uuid.NewV4()), UserID: u.ID}), errs.ErrPostNotFound)

	require.NoError(t, likes.Remove(ctx, l))
	require.ErrorIs(t, likes.Remove(ctx, l), errs.ErrLikeNotFound)

	n, err := likes.Count(ctx, p.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLikeRepo_ConcurrentAddKeepsOneRow(t *testing.T) {
	db := newTestDB(t)
	users, posts, likes := NewUserRepo(db), NewPostRepo(db), NewLikeRepo(db)
	ctx := context.Background()

	u := seedUser(t, users, "u@example.com")
	p := seedPost(t, posts, u.ID, "t")
	l := model.Like{PostID: p.ID, UserID: u.ID}

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		added   int
		already int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := likes.Add(ctx, l)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				added++
			case errors.Is(err, errs.ErrAlreadyLiked):
				already++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, added)
	require.Equal(t, workers-1, already)

	n, err := likes.Count(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
