package clients

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

var _ domain.IdentityService = (*IdentityClient)(nil)

type IdentityClient struct {
	api *API
}

func NewIdentityClient(api *API) *IdentityClient {
	return &IdentityClient{api: api}
}

func (c *IdentityClient) Login(ctx context.Context, phone, password string) (*domain.Identity, error) {
	var identity domain.Identity
	err := c.api.do(ctx, request{
		method:   http.MethodPost,
		path:     "users/login",
		body:     map[string]string{"phone": phone, "password": password},
		fallback: "Unable to login. Please check your credentials.",
	}, &identity)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *IdentityClient) Register(ctx context.Context, name, phone, password string) (*domain.Identity, error) {
	var identity domain.Identity
	err := c.api.do(ctx, request{
		method:   http.MethodPost,
		path:     "users/register",
		body:     map[string]string{"name": name, "phone": phone, "password": password},
		fallback: "Registration failed. Please verify your details.",
	}, &identity)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *IdentityClient) UpdateProfile(ctx context.Context, token string, update domain.ProfileUpdate) (*domain.Identity, error) {
	var identity domain.Identity
	err := c.api.do(ctx, request{
		method:   http.MethodPut,
		path:     "users/profile",
		body:     update,
		token:    token,
		fallback: "Failed to update profile",
	}, &identity)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (c *IdentityClient) ForgotPassword(ctx context.Context, phone string) error {
	return c.api.do(ctx, request{
		method:   http.MethodPost,
		path:     "users/forgot-password",
		body:     map[string]string{"phone": phone},
		fallback: "Unable to send reset SMS. Please try again.",
	}, nil)
}

func (c *IdentityClient) ResetPassword(ctx context.Context, resetToken, password string) error {
	return c.api.do(ctx, request{
		method:   http.MethodPost,
		path:     "users/reset-password/" + url.PathEscape(resetToken),
		body:     map[string]string{"password": password},
		fallback: "Password reset failed. Please try again.",
	}, nil)
}

func (c *IdentityClient) DeleteAccount(ctx context.Context) error {
	return c.api.do(ctx, request{
		method:   http.MethodDelete,
		path:     "users/delete",
		fallback: "Failed to delete account",
	}, nil)
}
