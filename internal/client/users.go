package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"solarops/pkg/solar"
)

// UsersClient wraps the user administration endpoints. Its
// CheckPermissions method implements api.PermissionSource for the
// permission guard.
type UsersClient struct {
	c *Client
}

// NewUsersClient creates a UsersClient on top of the shared client.
func NewUsersClient(c *Client) *UsersClient {
	return &UsersClient{c: c}
}

// List returns users matching the filter parameters.
func (u *UsersClient) List(ctx context.Context, params solar.UserListParams) (*solar.UserListResponse, error) {
	q := url.Values{}
	intQuery(q, "skip", params.Skip)
	intQuery(q, "limit", params.Limit)
	strQuery(q, "role", string(params.Role))
	strQuery(q, "status", string(params.Status))
	strQuery(q, "search", params.Search)
	strQuery(q, "department", params.Department)

	var out solar.UserListResponse
	if err := u.c.do(ctx, http.MethodGet, "/users", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a single user by ID.
func (u *UsersClient) Get(ctx context.Context, id int) (*solar.User, error) {
	var out solar.User
	if err := u.c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create creates a new user account (admin only).
func (u *UsersClient) Create(ctx context.Context, body solar.UserCreate) (*solar.UserResponse, error) {
	var out solar.UserResponse
	if err := u.c.do(ctx, http.MethodPost, "/users", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies a user's profile fields.
func (u *UsersClient) Update(ctx context.Context, id int, body solar.UserUpdate) (*solar.UserResponse, error) {
	var out solar.UserResponse
	if err := u.c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the profile of the authenticated user.
func (u *UsersClient) Me(ctx context.Context) (*solar.User, error) {
	var out solar.User
	if err := u.c.do(ctx, http.MethodGet, "/users/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe modifies the authenticated user's own profile.
func (u *UsersClient) UpdateMe(ctx context.Context, body solar.UserUpdate) (*solar.UserResponse, error) {
	var out solar.UserResponse
	if err := u.c.do(ctx, http.MethodPut, "/users/me", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword changes the authenticated user's password.
func (u *UsersClient) ChangePassword(ctx context.Context, body solar.UserPasswordChange) (*solar.UserResponse, error) {
	var out solar.UserResponse
	if err := u.c.do(ctx, http.MethodPost, "/users/me/change-password", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRole changes a user's role and optionally their status.
func (u *UsersClient) UpdateRole(ctx context.Context, id int, body solar.UserRoleUpdate) (*solar.UserResponse, error) {
	var out solar.UserResponse
	if err := u.c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d/role", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword resets another user's password (admin only).
func (u *UsersClient) ResetPassword(ctx context.Context, id int) (*solar.UserResponse, error) {
	var out solar.UserResponse
	if err := u.c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/reset-password", id), nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete soft-deletes a user account.
func (u *UsersClient) Delete(ctx context.Context, id int) (*solar.UserResponse, error) {
	var out solar.UserResponse
	if err := u.c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Restore reverses a soft delete.
func (u *UsersClient) Restore(ctx context.Context, id int) (*solar.UserResponse, error) {
	var out solar.UserResponse
	if err := u.c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%d/restore", id), nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailableRoles lists the roles the caller may assign.
func (u *UsersClient) AvailableRoles(ctx context.Context) ([]string, error) {
	var out []string
	if err := u.c.do(ctx, http.MethodGet, "/users/roles/available", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckPermissions fetches the caller's permission set. Called fresh on
// every permission-guard evaluation; never cached.
func (u *UsersClient) CheckPermissions(ctx context.Context) (*solar.PermissionSet, error) {
	var out solar.PermissionSet
	if err := u.c.do(ctx, http.MethodGet, "/users/permissions/check", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the user statistics summary.
func (u *UsersClient) Stats(ctx context.Context) (*solar.UserStats, error) {
	var out solar.UserStats
	if err := u.c.do(ctx, http.MethodGet, "/users/stats/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
