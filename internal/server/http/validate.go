package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid/v5"

	"github.com/and161185/social-api/internal/errs"
	"github.com/and161185/social-api/internal/model"
	"github.com/and161185/social-api/internal/service"
)

const (
	maxBodyBytes = 1 << 20
	dateLayout   = "2006-01-02"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// invalid wraps a message as errs.ErrInvalidInput.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// decodeJSON reads a single JSON object from the body and validates its tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return invalid("empty body")
		}
		return invalid("malformed JSON: %v", err)
	}
	if dec.More() {
		return invalid("unexpected data after JSON object")
	}
	return checkStruct(dst)
}

func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return invalid("%v", err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", jsonName(fe), fe.Tag()))
	}
	return invalid("%s", strings.Join(msgs, "; "))
}

func jsonName(fe validator.FieldError) string {
	switch fe.Field() {
	case "PhoneNumber":
		return "phone_number"
	case "PostID":
		return "post_id"
	default:
		return strings.ToLower(fe.Field())
	}
}

// parseUserCreate validates a registration body.
func parseUserCreate(w http.ResponseWriter, r *http.Request) (userCreateRequest, error) {
	var req userCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return userCreateRequest{}, err
	}
	return req, nil
}

// parseLogin accepts either a JSON body {email,password} or an OAuth2 password
// form {username,password}.
func parseLogin(w http.ResponseWriter, r *http.Request) (loginRequest, error) {
	var req loginRequest
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return loginRequest{}, invalid("malformed form: %v", err)
		}
		req.Email = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		return req, checkStruct(&req)
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return loginRequest{}, err
	}
	return req, nil
}

// parsePostInput validates a create/update body. Published defaults to true.
func parsePostInput(w http.ResponseWriter, r *http.Request) (model.PostInput, error) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return model.PostInput{}, err
	}
	in := model.PostInput{Title: req.Title, Content: req.Content, Published: true}
	if req.Published != nil {
		in.Published = *req.Published
	}
	return in, nil
}

// parseLike validates a like toggle body. Dir defaults to a like.
func parseLike(w http.ResponseWriter, r *http.Request) (uuid.UUID, model.LikeDir, error) {
	var req likeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return uuid.Nil, 0, err
	}
	if req.PostID == uuid.Nil {
		return uuid.Nil, 0, invalid("post_id: required")
	}
	dir := model.DoLike
	if req.Dir != nil {
		dir = model.LikeDir(*req.Dir)
	}
	return req.PostID, dir, nil
}

// parseID reads a UUID path parameter.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, invalid("id: not a valid UUID")
	}
	return id, nil
}

// parsePostFilter reads limit, skip, search, start_date and end_date. Dates are
// whole days in UTC; end_date includes the full day.
func parsePostFilter(r *http.Request) (model.PostFilter, error) {
	q := r.URL.Query()
	f := model.PostFilter{Limit: service.DefaultPostLimit, Search: q.Get("search")}

	var err error
	if f.Limit, err = queryInt(q.Get("limit"), f.Limit); err != nil {
		return model.PostFilter{}, invalid("limit: %v", err)
	}
	if f.Skip, err = queryInt(q.Get("skip"), 0); err != nil {
		return model.PostFilter{}, invalid("skip: %v", err)
	}
	if v := q.Get("start_date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return model.PostFilter{}, invalid("start_date: want YYYY-MM-DD")
		}
		f.From = &d
	}
	if v := q.Get("end_date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return model.PostFilter{}, invalid("end_date: want YYYY-MM-DD")
		}
		end := d.Add(24*time.Hour - time.Microsecond)
		f.To = &end
	}
	return f, nil
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("not an integer")
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}
