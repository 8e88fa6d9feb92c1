package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainuser "kostadmin/internal/domain/user"
	"kostadmin/internal/infra/security"
	"kostadmin/internal/infra/storage/memory"
)

func TestRegister(t *testing.T) {
	repo := memory.NewUserRepository()
	handler := &RegisterHandler{
		Users:  repo,
		Hasher: security.BcryptHasher{Cost: bcrypt.MinCost},
	}
	ctx := context.Background()

	res, err := handler.Handle(ctx, RegisterCommand{
		ID:       "u-1",
		Email:    "Ani@Example.com",
		Name:     "Ani",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ani@example.com", res.Email)
	assert.Equal(t, []string{"tenant"}, res.Roles, "tenant is the default role")

	stored, err := repo.ByID(ctx, "u-1")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	handler := &RegisterHandler{
		Users:  memory.NewUserRepository(),
		Hasher: security.BcryptHasher{Cost: bcrypt.MinCost},
	}
	_, err := handler.Handle(context.Background(), RegisterCommand{
		ID:       "u-1",
		Email:    "a@b.c",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	handler := &RegisterHandler{
		Users:  memory.NewUserRepository(),
		Hasher: security.BcryptHasher{Cost: bcrypt.MinCost},
	}
	ctx := context.Background()

	_, err := handler.Handle(ctx, RegisterCommand{ID: "u-1", Email: "a@b.c", Password: "long enough"})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, RegisterCommand{ID: "u-2", Email: "A@B.C", Password: "long enough"})
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
}
