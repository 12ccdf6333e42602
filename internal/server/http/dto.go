package httpserver

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/social-api/internal/model"
)

type userCreateRequest struct {
	Email       string  `json:"email" validate:"required,email,max=254"`
	Password    string  `json:"password" validate:"required,max=1024"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
}

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, PhoneNumber: u.PhoneNumber, CreatedAt: u.CreatedAt}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type postRequest struct {
	Title     string `json:"title" validate:"required,max=512"`
	Content   string `json:"content" validate:"required"`
	Published *bool  `json:"published"`
}

type ownerResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type postResponse struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Published bool          `json:"published"`
	CreatedAt time.Time     `json:"created_at"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	Owner     ownerResponse `json:"owner"`
}

type postWithLikesResponse struct {
	Post  postResponse `json:"post"`
	Likes int64        `json:"likes"`
}

func toPostResponse(p model.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		OwnerID:   p.OwnerID,
		Owner:     ownerResponse{ID: p.Owner.ID, Email: p.Owner.Email},
	}
}

func toPostWithLikesResponse(pw model.PostWithLikes) postWithLikesResponse {
	return postWithLikesResponse{Post: toPostResponse(pw.Post), Likes: pw.Likes}
}

type likeRequest struct {
	PostID uuid.UUID `json:"post_id"`
	Dir    *int      `json:"dir" validate:"omitempty,oneof=0 1"`
}
