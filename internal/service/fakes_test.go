package service

import (
	"context"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/and161185/social-api/internal/repository"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers { return &fakeUsers{byEmail: map[string]*model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	f.byEmail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) List(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.byEmail))
	for _, u := range f.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

type fakePosts struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Post
	likes *fakeLikes

	existsErr error
	lastList  model.PostFilter
}

var _ repository.PostRepository = (*fakePosts)(nil)

func newFakePosts(likes *fakeLikes) *fakePosts {
	return &fakePosts{byID: map[uuid.UUID]*model.Post{}, likes: likes}
}

func (f *fakePosts) Create(_ context.Context, p *model.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.Owner = model.Owner{ID: p.OwnerID}
	cpy := *p
	f.byID[p.ID] = &cpy
	return nil
}

func (f *fakePosts) Get(ctx context.Context, id uuid.UUID) (*model.PostWithLikes, error) {
	f.mu.Lock()
	p, ok := f.byID[id]
	f.mu.Unlock()
	if !ok {
		return nil, errs.ErrPostNotFound
	}
	n, _ := f.likes.Count(ctx, id)
	return &model.PostWithLikes{Post: *p, Likes: n}, nil
}

func (f *fakePosts) List(_ context.Context, flt model.PostFilter) ([]model.PostWithLikes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = flt
	out := make([]model.PostWithLikes, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, model.PostWithLikes{Post: *p})
	}
	return out, nil
}

func (f *fakePosts) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakePosts) OwnerOf(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return uuid.Nil, errs.ErrPostNotFound
	}
	return p.OwnerID, nil
}

func (f *fakePosts) Update(_ context.Context, id uuid.UUID, in model.PostInput) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrPostNotFound
	}
	p.Title, p.Content, p.Published = in.Title, in.Content, in.Published
	c := *p
	return &c, nil
}

func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return errs.ErrPostNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeLikes enforces one row per pair inside Add, the way the store's primary key does.
type fakeLikes struct {
	mu   sync.Mutex
	rows map[model.Like]struct{}

	addCalls int
}

var _ repository.LikeRepository = (*fakeLikes)(nil)

func newFakeLikes() *fakeLikes { return &fakeLikes{rows: map[model.Like]struct{}{}} }

func (f *fakeLikes) Exists(_ context.Context, l model.Like) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[l]
	return ok, nil
}

func (f *fakeLikes) Add(_ context.Context, l model.Like) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if _, ok := f.rows[l]; ok {
		return errs.ErrAlreadyLiked
	}
	f.rows[l] = struct{}{}
	return nil
}

func (f *fakeLikes) Remove(_ context.Context, l model.Like) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[l]; !ok {
		return errs.ErrLikeNotFound
	}
	delete(f.rows, l)
	return nil
}

func (f *fakeLikes) Count(_ context.Context, postID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for l := range f.rows {
		if l.PostID == postID {
			n++
		}
	}
	return n, nil
}
