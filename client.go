package mboardweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

const defaultDirectoryBaseURL = "http://localhost:3000/api"

// AuthResponse is the token pair the directory returns on login/register.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RemoteUser is a directory user record as the service serializes it.
type RemoteUser struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Role     UserRole   `json:"role"`
	Status   UserStatus `json:"status"`
}

// UserUpdate is the partial update body for PUT /users/:id. Nil fields
// are omitted; the username is immutable and has no field here.
type UserUpdate struct {
	Role   *UserRole   `json:"role,omitempty"`
	Status *UserStatus `json:"status,omitempty"`
}

// DirectoryAPI is the remote surface AdminDirectory and the controller
// consume. DirectoryClient is the production implementation.
type DirectoryAPI interface {
	Login(ctx context.Context, username, password string) (*AuthResponse, error)
	Register(ctx context.Context, username, password string) (*AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ListUsers(ctx context.Context, accessToken string) ([]RemoteUser, error)
	UpdateUser(ctx context.Context, accessToken string, id int64, update UserUpdate) (*RemoteUser, error)
	DeleteUser(ctx context.Context, accessToken string, id int64) error
}

// DirectoryClient talks to the remote directory service. Calls carry no
// client-side timeout; cancellation comes from the caller's context.
type DirectoryClient struct {
	baseURL    string
	httpClient *http.Client
	Logger     Logger
}

var _ DirectoryAPI = (*DirectoryClient)(nil)

// DirectoryClientOption configures a DirectoryClient.
type DirectoryClientOption func(*DirectoryClient)

// WithHTTPClient injects the transport, mostly for tests.
func WithHTTPClient(client *http.Client) DirectoryClientOption {
	return func(c *DirectoryClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithDirectoryLogger sets the client logger.
func WithDirectoryLogger(logger Logger) DirectoryClientOption {
	return func(c *DirectoryClient) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// NewDirectoryClient creates a client for the directory service.
func NewDirectoryClient(baseURL string, opts ...DirectoryClientOption) *DirectoryClient {
	if baseURL == "" {
		baseURL = defaultDirectoryBaseURL
	}

	c := &DirectoryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		Logger:     defLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RevokeSession satisfies the SessionRevoker interface.
func (c *DirectoryClient) RevokeSession(ctx context.Context, refreshToken string) error {
	return c.Logout(ctx, refreshToken)
}

// Login exchanges credentials for a token pair.
func (c *DirectoryClient) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	tokens := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/login", "", body, tokens); err != nil {
		return nil, err
	}

	return tokens, nil
}

// Register creates an account and returns its first token pair. Only
// the username and password travel; role assignment is server-owned.
func (c *DirectoryClient) Register(ctx context.Context, username, password string) (*AuthResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	tokens := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/register", "", body, tokens); err != nil {
		return nil, err
	}

	return tokens, nil
}

// Logout tells the directory to drop a refresh token.
func (c *DirectoryClient) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{
		"refreshToken": refreshToken,
	}
	return c.do(ctx, http.MethodPost, "/logout", "", body, nil)
}

// ListUsers fetches the full user directory.
func (c *DirectoryClient) ListUsers(ctx context.Context, accessToken string) ([]RemoteUser, error) {
	users := []RemoteUser{}
	if err := c.do(ctx, http.MethodGet, "/users", accessToken, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies a partial update to a user record.
func (c *DirectoryClient) UpdateUser(ctx context.Context, accessToken string, id int64, update UserUpdate) (*RemoteUser, error) {
	user := &RemoteUser{}
	path := fmt.Sprintf("/users/%d", id)
	if err := c.do(ctx, http.MethodPut, path, accessToken, update, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user record. Success is 204 with no body.
func (c *DirectoryClient) DeleteUser(ctx context.Context, accessToken string, id int64) error {
	path := fmt.Sprintf("/users/%d", id)
	return c.do(ctx, http.MethodDelete, path, accessToken, nil, nil)
}

func (c *DirectoryClient) do(ctx context.Context, method, path, accessToken string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to encode directory request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to build directory request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, ErrDirectoryFailure.Category, "directory request failed").
			WithTextCode(ErrDirectoryFailure.TextCode).
			WithMetadata(map[string]any{
				"method": method,
				"path":   path,
			})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, ErrDirectoryFailure.Category, "failed to read directory response").
			WithTextCode(ErrDirectoryFailure.TextCode)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.Logger.Debug("directory call rejected", "method", method, "path", path, "status", resp.StatusCode)
		return apiError(method, path, resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, ErrDirectoryFailure.Category, "failed to decode directory response").
				WithTextCode(ErrDirectoryFailure.TextCode)
		}
	}

	return nil
}

type directoryAPIError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// apiError turns a non-2xx directory response into a rich error whose
// message is the service's own `message` or `error` field when present.
func apiError(method, path string, status int, body []byte) *errors.Error {
	message := ""

	var apiErr directoryAPIError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		if apiErr.Message != "" {
			message = apiErr.Message
		} else if apiErr.Error != "" {
			message = apiErr.Error
		}
	}

	if message == "" {
		message = fmt.Sprintf("directory request failed with status %d", status)
	}

	category := errors.CategoryOperation
	code := errors.CodeInternal
	switch status {
	case http.StatusUnauthorized:
		category = errors.CategoryAuth
		code = errors.CodeUnauthorized
	case http.StatusForbidden:
		category = errors.CategoryAuthz
		code = errors.CodeForbidden
	case http.StatusNotFound:
		category = errors.CategoryNotFound
		code = errors.CodeNotFound
	case http.StatusBadRequest:
		category = errors.CategoryBadInput
		code = errors.CodeBadRequest
	}

	return errors.New(message, category).
		WithTextCode(TextCodeDirectoryFailure).
		WithCode(code).
		WithMetadata(map[string]any{
			"method": method,
			"path":   path,
			"status": status,
		})
}
