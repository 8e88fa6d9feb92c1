package users

import (
	"context"
	"errors"
	"time"

	domainuser "kostadmin/internal/domain/user"
)

var ErrPasswordTooShort = errors.New("users: password must be at least 8 characters")

const minPasswordLength = 8

// PasswordHasher is satisfied by the bcrypt hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type RegisterCommand struct {
	ID       string
	Email    string
	Name     string
	Password string
	Roles    []string
}

type RegisterResult struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// RegisterHandler creates back-office accounts. Tenants get the tenant
// role by default; the role names feed promotion audience rules.
type RegisterHandler struct {
	Users  domainuser.Repository
	Hasher PasswordHasher
	Now    func() time.Time
}

func (h *RegisterHandler) Handle(ctx context.Context, cmd RegisterCommand) (*RegisterResult, error) {
	if len(cmd.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	hash, err := h.Hasher.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}

	roles := make([]domainuser.Role, 0, len(cmd.Roles))
	for _, r := range cmd.Roles {
		roles = append(roles, domainuser.Role(r))
	}

	u, err := domainuser.NewUser(domainuser.CreateParams{
		ID:           domainuser.ID(cmd.ID),
		Email:        cmd.Email,
		Name:         cmd.Name,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    h.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := h.Users.Save(ctx, u); err != nil {
		return nil, err
	}

	return &RegisterResult{
		ID:    string(u.ID),
		Email: u.Email,
		Name:  u.Name,
		Roles: u.RoleNames(),
	}, nil
}

func (h *RegisterHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
