package domain

import "context"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Identity is the authenticated user record returned by the identity service.
type Identity struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
	Token string `json:"token"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Complete reports whether the identity can back a session: it needs both
// an id and a bearer token.
func (i *Identity) Complete() bool {
	return i != nil && i.ID != "" && i.Token != ""
}

// ProfileUpdate carries the fields a user may change; nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Phone == nil && u.Password == nil
}

type IdentityService interface {
	Login(ctx context.Context, phone, password string) (*Identity, error)
	Register(ctx context.Context, name, phone, password string) (*Identity, error)
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*Identity, error)
	ForgotPassword(ctx context.Context, phone string) error
	ResetPassword(ctx context.Context, resetToken, password string) error
	DeleteAccount(ctx context.Context) error
}
