package mboardweb

import (
	"context"
	"fmt"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"
	"golang.org/x/sync/singleflight"
)

// BearerSource supplies the access token a directory call should carry.
// SessionStore satisfies it through an adapter in the web controller;
// tests satisfy it with a func.
type BearerSource interface {
	Bearer(ctx context.Context) string
}

// BearerSourceFunc adapts a function into a BearerSource.
type BearerSourceFunc func(ctx context.Context) string

// Bearer satisfies the BearerSource interface.
func (f BearerSourceFunc) Bearer(ctx context.Context) string {
	if f == nil {
		return ""
	}
	return f(ctx)
}

// UserRecord is the cached view of a directory user.
type UserRecord struct {
	ID       int64      `json:"id"`
	Username string     `json:"username"`
	Role     UserRole   `json:"role"`
	Status   UserStatus `json:"status"`
}

// AdminDirectory orchestrates the admin console's user CRUD. It caches
// the last successful full listing and refreshes it after every
// mutation attempt, success or failure alike.
type AdminDirectory struct {
	client DirectoryAPI
	tokens BearerSource
	Logger Logger

	mu      sync.RWMutex
	users   []UserRecord
	busy    bool
	message string

	flight singleflight.Group
}

// AdminDirectoryOption configures an AdminDirectory.
type AdminDirectoryOption func(*AdminDirectory)

// WithAdminLogger sets the directory logger.
func WithAdminLogger(logger Logger) AdminDirectoryOption {
	return func(d *AdminDirectory) {
		if logger != nil {
			d.Logger = logger
		}
	}
}

// NewAdminDirectory creates the admin console orchestrator.
func NewAdminDirectory(client DirectoryAPI, tokens BearerSource, opts ...AdminDirectoryOption) *AdminDirectory {
	if client == nil {
		panic("Missing DirectoryAPI in admin directory...")
	}
	if tokens == nil {
		panic("Missing BearerSource in admin directory...")
	}

	d := &AdminDirectory{
		client: client,
		tokens: tokens,
		Logger: defLogger{},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Users returns a copy of the cached listing.
func (d *AdminDirectory) Users() []UserRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]UserRecord, len(d.users))
	copy(out, d.users)
	return out
}

// Busy reports whether a mutation is in flight.
func (d *AdminDirectory) Busy() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.busy
}

// Message returns the outcome line of the last operation.
func (d *AdminDirectory) Message() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.message
}

// List replaces the cached listing with a fresh directory fetch. On
// failure the stale cache is kept and the error message surfaced.
func (d *AdminDirectory) List(ctx context.Context) ([]UserRecord, error) {
	token := d.tokens.Bearer(ctx)
	if token == "" {
		d.setMessage(ErrNotAuthenticated.Message)
		return nil, ErrNotAuthenticated
	}

	remote, err := d.client.ListUsers(ctx, token)
	if err != nil {
		d.Logger.Error("directory list failed", "error", err)
		d.setMessage(messageOf(err))
		return nil, err
	}

	users := make([]UserRecord, 0, len(remote))
	for _, u := range remote {
		users = append(users, UserRecord{
			ID:       u.ID,
			Username: u.Username,
			Role:     u.Role,
			Status:   u.Status,
		})
	}

	d.mu.Lock()
	d.users = users
	d.mu.Unlock()

	return d.Users(), nil
}

// CreateUserPayload carries the admin console's create form. The role
// is collected for the UI but never transmitted; the directory service
// owns role assignment.
type CreateUserPayload struct {
	Username string   `form:"username" json:"username"`
	Role     UserRole `form:"role" json:"role"`
	Password string   `form:"password" json:"password"`
}

// Validate will run validation rules
func (p CreateUserPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&p,
			validation.Field(
				&p.Username,
				validation.Required.Error("Username is required."),
			),
			validation.Field(
				&p.Password,
				validation.Required.Error("Password is required for new users."),
			),
		)
	}, "Invalid user payload")
}

// Create registers a new user. Validation failures surface their
// message and never reach the network.
func (d *AdminDirectory) Create(ctx context.Context, payload CreateUserPayload) error {
	if err := payload.Validate(); err != nil {
		d.setMessage(firstValidationMessage(err))
		return err
	}

	return d.withMutation(ctx, "create:"+payload.Username, func(ctx context.Context, token string) (string, error) {
		if _, err := d.client.Register(ctx, payload.Username, payload.Password); err != nil {
			return messageOf(err), err
		}
		return fmt.Sprintf("User %q created", payload.Username), nil
	})
}

// Update applies a partial role/status change to a user. The status
// move is checked client-side before any network traffic.
func (d *AdminDirectory) Update(ctx context.Context, id int64, update UserUpdate) error {
	if update.Status != nil {
		if current, ok := d.lookup(id); ok {
			if err := ValidateTransition(current.Status, *update.Status); err != nil {
				d.setMessage(messageOf(err))
				return err
			}
		}
	}
	if update.Role != nil && !update.Role.IsValid() {
		err := errors.New("unknown role", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
		d.setMessage(err.Message)
		return err
	}

	return d.withMutation(ctx, fmt.Sprintf("user:%d", id), func(ctx context.Context, token string) (string, error) {
		if _, err := d.client.UpdateUser(ctx, token, id, update); err != nil {
			return messageOf(err), err
		}
		return "User updated", nil
	})
}

// Delete removes a user after the confirmer agrees. A declined
// confirmation performs no I/O and leaves all state untouched.
func (d *AdminDirectory) Delete(ctx context.Context, id int64, username string, confirm Confirmer) error {
	if confirm == nil || !confirm.ConfirmDelete(username) {
		return nil
	}

	return d.withMutation(ctx, fmt.Sprintf("user:%d", id), func(ctx context.Context, token string) (string, error) {
		if err := d.client.DeleteUser(ctx, token, id); err != nil {
			return messageOf(err), err
		}
		return fmt.Sprintf("User %q deleted", username), nil
	})
}

// withMutation runs one mutation under the shared protocol: busy flag
// up, exactly one directory call, outcome message, unconditional full
// re-fetch, busy flag down. A concurrent mutation for the same key is
// rejected instead of issued twice.
func (d *AdminDirectory) withMutation(ctx context.Context, key string, fn func(ctx context.Context, token string) (string, error)) error {
	token := d.tokens.Bearer(ctx)
	if token == "" {
		d.setMessage(ErrNotAuthenticated.Message)
		return ErrNotAuthenticated
	}

	ran := false
	_, err, _ := d.flight.Do(key, func() (any, error) {
		ran = true

		d.setBusy(true)
		defer d.setBusy(false)

		message, err := fn(ctx, token)
		d.setMessage(message)

		if _, listErr := d.List(ctx); listErr != nil {
			d.Logger.Error("post-mutation refresh failed", "error", listErr)
			// the mutation outcome wins over the refetch error
			d.setMessage(message)
		}

		return message, err
	})

	if !ran {
		return ErrMutationInFlight.Clone().WithMetadata(map[string]any{
			"key": key,
		})
	}

	return err
}

func (d *AdminDirectory) lookup(id int64) (UserRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return UserRecord{}, false
}

func (d *AdminDirectory) setBusy(busy bool) {
	d.mu.Lock()
	d.busy = busy
	d.mu.Unlock()
}

func (d *AdminDirectory) setMessage(message string) {
	d.mu.Lock()
	d.message = message
	d.mu.Unlock()
}

// messageOf extracts the human-readable line from an error.
func messageOf(err error) string {
	if err == nil {
		return ""
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Message
	}
	return err.Error()
}

// firstValidationMessage pulls the first per-field message out of a
// validation error so forms can show the exact rule text.
func firstValidationMessage(err *errors.Error) string {
	if err == nil {
		return ""
	}
	for _, field := range []string{"username", "password"} {
		if msg, ok := err.ValidationMap()[field]; ok && len(msg) > 0 {
			return msg
		}
	}
	for _, msgs := range err.ValidationMap() {
		if len(msgs) > 0 {
			return msgs
		}
	}
	return err.Message
}
