package client

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
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatop/internal/client/models"
	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/netx"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu          sync.RWMutex
	accessToken string
}

// NewHTTPClient builds a client for the server at baseURL, for example
// "http://127.0.0.1:3001".
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type errorBody struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	c.accessToken = t
	c.mu.Unlock()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return c.send(ctx, method, path, nil, "", out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.send(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if t := c.token(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&eb)
		return &APIError{Status: resp.StatusCode, Message: eb.Message, Details: eb.Details}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Register creates an account and keeps the issued token.
func (c *HTTPClient) Register(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	var resp struct {
		User models.User  `json:"user"`
		Auth models.Token `json:"auth"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": string(password),
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.setToken(resp.Auth.Token)
	return &resp.User, nil
}

// Login authenticates and keeps the issued token for later calls.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.Token, error) {
	var tok models.Token
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"login":    email,
		"password": string(password),
	}, &tok)
	if err != nil {
		return nil, err
	}

	c.setToken(tok.Token)
	return &tok, nil
}

// Logout drops the token. Tokens are stateless, the server is not called.
func (c *HTTPClient) Logout() {
	c.setToken("")
}

func (c *HTTPClient) LoggedIn() bool {
	return c.token() != ""
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Ping checks the health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/actuator/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "UP" {
		return fmt.Errorf("%w: status %s", ErrUnavailable, resp.Status)
	}
	return nil
}

func (c *HTTPClient) ListRentals(ctx context.Context, page, size int) (*models.RentalPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))

	var p models.RentalPage
	if err := c.do(ctx, http.MethodGet, "/api/rentals?"+q.Encode(), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, userID, rentalID int64, text string) (*models.Message, error) {
	if text == "" {
		return nil, errors.New("message is empty")
	}

	var m models.Message
	err := c.do(ctx, http.MethodPost, "/api/messages", map[string]any{
		"message":   text,
		"user_id":   userID,
		"rental_id": rentalID,
	}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateRental uploads a new rental with its picture.
func (c *HTTPClient) CreateRental(ctx context.Context, in models.NewRental, filename string, picture []byte) (*models.Rental, error) {
	fields := map[string]string{
		"name":    in.Name,
		"surface": strconv.Itoa(in.Surface),
		"price":   strconv.Itoa(in.Price),
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}

	body, contentType, err := netx.MultipartForm(fields, "picture", filename, picture)
	if err != nil {
		return nil, err
	}

	var r models.Rental
	if err := c.send(ctx, http.MethodPost, "/api/rentals", body, contentType, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
