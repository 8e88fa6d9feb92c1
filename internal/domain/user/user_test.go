package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(CreateParams{
		ID:           " u-1 ",
		Email:        " Budi@Kost.ID ",
		Name:         " Budi ",
		PasswordHash: "hash",
		Roles:        []Role{"Admin", "admin", RoleTenant},
	})
	require.NoError(t, err)
	assert.Equal(t, ID("u-1"), u.ID)
	assert.Equal(t, "budi@kost.id", u.Email)
	assert.Equal(t, "Budi", u.Name)
	assert.Equal(t, []Role{RoleAdmin, RoleTenant}, u.Roles, "roles deduplicated and lowered")
	assert.True(t, u.Active)
}

func TestNewUser_DefaultsToTenant(t *testing.T) {
	u, err := NewUser(CreateParams{ID: "u-1", Email: "a@b.c", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant"}, u.RoleNames())
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser(CreateParams{Email: "a@b.c", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrIDRequired)

	_, err = NewUser(CreateParams{ID: "u-1", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = NewUser(CreateParams{ID: "u-1", Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrPasswordHashMissing)
}

func TestHasRole(t *testing.T) {
	u := &User{Roles: []Role{RoleManager}}
	assert.True(t, u.HasRole("manager"))
	assert.True(t, u.HasRole(" Manager "))
	assert.False(t, u.HasRole(RoleAdmin))
	assert.False(t, u.HasRole(" "))
}

func TestSetPasswordHash(t *testing.T) {
	u := &User{PasswordHash: "old"}
	now := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, u.SetPasswordHash("new", now))
	assert.Equal(t, "new", u.PasswordHash)
	assert.Equal(t, now, u.UpdatedAt)

	assert.ErrorIs(t, u.SetPasswordHash("  ", now), ErrPasswordHashMissing)
}
