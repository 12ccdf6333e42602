package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// apiError is a non-2xx response from the server.
type apiError struct {
	Status int
	Detail string
}

func (e *apiError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// client is a thin JSON client for the social API.
type client struct {
	base  string
	hc    *http.Client
	token string
}

func newClient(base, token string) *client {
	return &client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 15 * time.Second},
		token: token,
	}
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{Status: resp.StatusCode, Detail: e.Detail}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) register(ctx context.Context, email, password, phone string) (map[string]any, error) {
	in := map[string]any{"email": email, "password": password}
	if phone != "" {
		in["phone_number"] = phone
	}
	var out map[string]any
	return out, c.do(ctx, http.MethodPost, "/users", in, &out)
}

// login returns the access token and its expiry read from the exp claim.
func (c *client) login(ctx context.Context, email, password string) (string, time.Time, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", map[string]string{"email": email, "password": password}, &out); err != nil {
		return "", time.Time{}, err
	}
	return out.AccessToken, tokenExpiry(out.AccessToken), nil
}

// tokenExpiry reads exp without verifying; the server is the authority.
func tokenExpiry(tok string) time.Time {
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser(jwt.WithoutClaimsValidation()).ParseUnverified(tok, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return time.Now().Add(15 * time.Minute)
	}
	return claims.ExpiresAt.Time
}

type postQuery struct {
	Limit, Skip int
	Search      string
	From, To    string // YYYY-MM-DD
}

func (q postQuery) encode() string {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.From != "" {
		v.Set("start_date", q.From)
	}
	if q.To != "" {
		v.Set("end_date", q.To)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *client) posts(ctx context.Context, q postQuery) ([]any, error) {
	var out []any
	return out, c.do(ctx, http.MethodGet, "/posts"+q.encode(), nil, &out)
}

func (c *client) get(ctx context.Context, path string) (any, error) {
	var out any
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func postBody(title, content string, published bool) map[string]any {
	return map[string]any{"title": title, "content": content, "published": published}
}

func (c *client) createPost(ctx context.Context, title, content string, published bool) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodPost, "/posts", postBody(title, content, published), &out)
}

func (c *client) updatePost(ctx context.Context, id, title, content string, published bool) (map[string]any, error) {
	var out map[string]any
	return out, c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(id), postBody(title, content, published), &out)
}

func (c *client) deletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil)
}

// like toggles the caller's like: dir 1 adds, dir 0 removes.
func (c *client) like(ctx context.Context, postID string, dir int) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/likes", map[string]any{"post_id": postID, "dir": dir}, &out)
	return out.Message, err
}
