package gateway

import (
	"context"
	"net/http"

	"gamehub/models"
)

// Register returns the new user's id.
func (c *Client) Register(ctx context.Context, in models.RegisterInput) (uint, error) {
	var out struct {
		UserID uint `json:"userId"`
	}
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/users/register",
		endpoint: "/users/register",
		body:     in,
	}, &out)
	return out.UserID, err
}

func (c *Client) Login(ctx context.Context, in models.LoginInput) (*models.LoginResult, error) {
	var out models.LoginResult
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/users/login",
		endpoint: "/users/login",
		body:     in,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/users/logout",
		endpoint: "/users/logout",
		token:    token,
	}, nil)
}

func (c *Client) GetUser(ctx context.Context, token string, id uint) (*models.User, error) {
	var user models.User
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     idPath("/users/%d", id),
		endpoint: "/users/:id",
		token:    token,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser sends the profile edit. Password fields are only included when
// the edit changes the password.
func (c *Client) UpdateUser(ctx context.Context, token string, id uint, in models.ProfileInput) error {
	payload := map[string]string{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"email":     in.Email,
	}
	if in.ChangesPassword() {
		payload["currentPassword"] = in.CurrentPassword
		payload["password"] = in.Password
	}
	return c.do(ctx, request{
		method:   http.MethodPatch,
		path:     idPath("/users/%d", id),
		endpoint: "/users/:id",
		token:    token,
		body:     payload,
	}, nil)
}
