// Package httpserver exposes the social API over HTTP/JSON.
package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/social-api/internal/model"
)

// AuthService is the login flow plus token verification.
type AuthService interface {
	Authenticator
	Login(ctx context.Context, email, password string) (model.AccessToken, error)
}

// UserService registers and reads users.
type UserService interface {
	Register(ctx context.Context, email, password string, phone *string) (*model.User, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// PostService reads and mutates posts.
type PostService interface {
	List(ctx context.Context, f model.PostFilter) ([]model.PostWithLikes, error)
	Get(ctx context.Context, id uuid.UUID) (*model.PostWithLikes, error)
	Create(ctx context.Context, owner uuid.UUID, in model.PostInput) (*model.Post, error)
	Update(ctx context.Context, caller, id uuid.UUID, in model.PostInput) (*model.Post, error)
	Delete(ctx context.Context, caller, id uuid.UUID) error
}

// LikeService toggles likes.
type LikeService interface {
	Toggle(ctx context.Context, l model.Like, dir model.LikeDir) error
}

// Pinger reports store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the dependencies of the HTTP layer.
type Services struct {
	Auth  AuthService
	Users UserService
	Posts PostService
	Likes LikeService
	Store Pinger
}

// Server wires services into HTTP handlers.
type Server struct {
	auth  AuthService
	users UserService
	posts PostService
	likes LikeService
	store Pinger

	log         *zap.Logger
	corsOrigins []string
}

// New constructs a Server with injected services.
func New(svc Services, log *zap.Logger, corsOrigins []string) *Server {
	return &Server{
		auth:        svc.Auth,
		users:       svc.Users,
		posts:       svc.Posts,
		likes:       svc.Likes,
		store:       svc.Store,
		log:         log,
		corsOrigins: corsOrigins,
	}
}

type route struct {
	method    string
	pattern   string
	handler   http.HandlerFunc
	protected bool
}

func (s *Server) routes() []route {
	return []route{
		{http.MethodGet, "/", s.root, false},
		{http.MethodGet, "/healthz", s.health, false},

		{http.MethodPost, "/login", s.login, false},

		{http.MethodPost, "/users", s.createUser, false},
		{http.MethodGet, "/users", s.listUsers, true},
		{http.MethodGet, "/users/{id}", s.getUser, false},

		{http.MethodGet, "/posts", s.listPosts, true},
		{http.MethodPost, "/posts", s.createPost, true},
		{http.MethodGet, "/posts/{id}", s.getPost, true},
		{http.MethodPut, "/posts/{id}", s.updatePost, true},
		{http.MethodDelete, "/posts/{id}", s.deletePost, true},

		{http.MethodPost, "/likes", s.toggleLike, true},
	}
}

// Handler builds the router from the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logging(s.log))
	r.Use(Recover(s.log))

	guard := RequireAuth(s.auth)
	for _, rt := range s.routes() {
		var h http.Handler = rt.handler
		if rt.protected {
			h = guard(h)
		}
		r.Method(rt.method, rt.pattern, h)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}
