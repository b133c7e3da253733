package client

// http_client.go = talks to the bookhub HTTP API on behalf of the CLI.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bookhub/internal/microservices/http-api/dto"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// IsCapacityExceeded reports whether err is the server refusing a shelf add for capacity.
func IsCapacityExceeded(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "capacity_exceeded"
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// BookQuery mirrors the catalogue query parameters. Empty fields are not sent.
type BookQuery struct {
	Category    string
	Search      string
	Sort        string
	PremiumOnly *bool
}

func (q BookQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.PremiumOnly != nil {
		v.Set("premium_only", strconv.FormatBool(*q.PremiumOnly))
	}
	return v
}

// Auth

func (c *HTTPClient) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var out dto.RegisterResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	var out dto.RefreshResponse
	body := dto.RefreshTokenRequest{RefreshToken: refreshToken}
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/refresh", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	body := dto.RefreshTokenRequest{RefreshToken: refreshToken}
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", body, nil)
	return err
}

// Catalogue

func (c *HTTPClient) ListBooks(ctx context.Context, q BookQuery) (*dto.BookListResponse, error) {
	path := "/api/books"
	if v := q.values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out dto.BookListResponse
	if _, err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetBook(ctx context.Context, id int64) (*dto.BookDetail, error) {
	var out dto.BookDetail
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PopularBooks(ctx context.Context) (*dto.BookListResponse, error) {
	var out dto.BookListResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/books/popular", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RecommendedBooks(ctx context.Context) (*dto.BookListResponse, error) {
	var out dto.BookListResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/books/recommended", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Shelf

func (c *HTTPClient) GetShelf(ctx context.Context) (*dto.ShelfListResponse, error) {
	var out dto.ShelfListResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/shelf", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AddToShelf(ctx context.Context, bookID int64) (*dto.ShelfAddResponse, error) {
	var out dto.ShelfAddResponse
	if _, err := c.do(ctx, http.MethodPost, "/api/shelf", dto.AddToShelfRequest{BookID: bookID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RemoveFromShelf(ctx context.Context, bookID int64) (*dto.ShelfRemoveResponse, error) {
	var out dto.ShelfRemoveResponse
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/shelf/%d", bookID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reviews

func (c *HTTPClient) SubmitReview(ctx context.Context, bookID int64, rating int, content string) (*dto.ReviewSubmitResponse, error) {
	var out dto.ReviewSubmitResponse
	body := dto.SubmitReviewRequest{Rating: &rating, Content: content}
	if _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/books/%d/reviews", bookID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteReview(ctx context.Context, bookID int64) (*dto.BookAggregate, error) {
	var out dto.BookAggregate
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/books/%d/reviews", bookID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListReviews(ctx context.Context, bookID int64) (*dto.ReviewListResponse, error) {
	var out dto.ReviewListResponse
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/books/%d/reviews", bookID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Progress

func (c *HTTPClient) UpdateProgress(ctx context.Context, bookID int64, progress int) (*dto.ProgressUpsertResponse, error) {
	var out dto.ProgressUpsertResponse
	body := dto.UpdateProgressRequest{BookID: bookID, Progress: &progress}
	if _, err := c.do(ctx, http.MethodPut, "/api/progress", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetProgress(ctx context.Context, bookID int64) (*dto.ProgressResponse, error) {
	var out dto.ProgressResponse
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/progress/%d", bookID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListProgress(ctx context.Context) (*dto.ProgressListResponse, error) {
	var out dto.ProgressListResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/progress", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile

func (c *HTTPClient) Me(ctx context.Context) (*dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends body as JSON and decodes a 2xx answer into out. out may be nil.
// It returns the status code, and an *APIError for any non-2xx answer.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
			apiErr.Code = payload.Code
		}
		return resp.StatusCode, apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return resp.StatusCode, nil
}
