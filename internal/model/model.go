// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents an account stored on the server. The password is never stored in plaintext.
type User struct {
	ID           uuid.UUID // PK, server-assigned
	Email        string    // unique
	PasswordHash string    // bcrypt digest, never exposed
	PhoneNumber  *string   // unique when set
	CreatedAt    time.Time
}

// Owner is the public projection of a user embedded in post responses.
type Owner struct {
	ID    uuid.UUID
	Email string
}

// Post is a piece of content owned exclusively by the user who created it.
type Post struct {
	ID        uuid.UUID
	Title     string
	Content   string
	Published bool
	OwnerID   uuid.UUID // FK -> users.id
	Owner     Owner
	CreatedAt time.Time
}

// PostInput carries the mutable fields of a post for create and update.
type PostInput struct {
	Title     string
	Content   string
	Published bool
}

// PostWithLikes is a post together with its like count computed at query time.
type PostWithLikes struct {
	Post  Post
	Likes int64
}

// PostFilter narrows post listings. Zero values mean "no constraint" except Limit.
type PostFilter struct {
	Limit  int
	Skip   int
	Search string     // substring of title
	From   *time.Time // created_at >= From
	To     *time.Time // created_at <= To
}

// Like is the (post, user) pair recorded by the like ledger. At most one per pair.
type Like struct {
	PostID uuid.UUID
	UserID uuid.UUID
}

// LikeDir is the toggle direction of a like request.
type LikeDir int

const (
	// Unlike removes an existing like.
	Unlike LikeDir = 0
	// DoLike adds a like.
	DoLike LikeDir = 1
)

// AccessToken is a freshly minted bearer token. It is never stored server-side.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenData is the verified claim carried into request handling.
type TokenData struct {
	UserID uuid.UUID
}
