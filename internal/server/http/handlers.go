package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
)

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, messageResponse{Message: "Hello World"})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.log.Warn("health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Auth ---

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	req, err := parseLogin(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tok, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{AccessToken: tok.Token, TokenType: "bearer"})
}

// --- Users ---

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	req, err := parseUserCreate(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.users.Register(r.Context(), req.Email, req.Password, req.PhoneNumber)
	if err != nil {
		s.fail(w, r, withDetail(err, errs.ErrAlreadyExists, "User with email %s already exists", req.Email))
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(*u))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, withDetail(err, errs.ErrNotFound, "User with id: %s was not found.", id))
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(*u))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	respondJSON(w, http.StatusOK, out)
}

// --- Posts ---

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	f, err := parsePostFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	posts, err := s.posts.List(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]postWithLikesResponse, 0, len(posts))
	for _, pw := range posts {
		out = append(out, toPostWithLikesResponse(pw))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pw, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, withDetail(err, errs.ErrNotFound, "Post with id: %s was not found.", id))
		return
	}
	respondJSON(w, http.StatusOK, toPostWithLikesResponse(*pw))
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	caller, _ := UserIDFromCtx(r.Context())
	in, err := parsePostInput(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.posts.Create(r.Context(), caller, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPostResponse(*p))
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	caller, _ := UserIDFromCtx(r.Context())
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	in, err := parsePostInput(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.posts.Update(r.Context(), caller, id, in)
	if err != nil {
		s.fail(w, r, withDetail(err, errs.ErrNotFound, "Post with id: %s was not found.", id))
		return
	}
	respondJSON(w, http.StatusOK, toPostResponse(*p))
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	caller, _ := UserIDFromCtx(r.Context())
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.posts.Delete(r.Context(), caller, id); err != nil {
		s.fail(w, r, withDetail(err, errs.ErrNotFound, "Post with id: %s was not found.", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Likes ---

func (s *Server) toggleLike(w http.ResponseWriter, r *http.Request) {
	caller, _ := UserIDFromCtx(r.Context())
	postID, dir, err := parseLike(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	err = s.likes.Toggle(r.Context(), model.Like{PostID: postID, UserID: caller}, dir)
	if err != nil {
		err = withDetail(err, errs.ErrPostNotFound, "Post with id %s does not exist", postID)
		err = withDetail(err, errs.ErrLikeNotFound, "Like does not exist")
		err = withDetail(err, errs.ErrAlreadyLiked, "User %s has already liked post %s", caller, postID)
		s.fail(w, r, err)
		return
	}

	msg := "Successfully added like"
	if dir == model.Unlike {
		msg = "Successfully deleted like"
	}
	respondJSON(w, http.StatusCreated, messageResponse{Message: msg})
}
