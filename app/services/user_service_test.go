package services

import (
	"testing"

	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.catalog.Users.Create(env.ctx, UserInput{Name: "Kofi", Email: " Kofi@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, "kofi@example.com", user.Email)
	assert.Equal(t, models.RoleStaff, user.Role)

	loaded, err := env.catalog.Users.Get(env.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)

	_, err = env.catalog.Users.Create(env.ctx, UserInput{Name: "Kofi again", Email: "kofi@example.com"})
	requireValidationError(t, err, "email")

	_, err = env.catalog.Users.Create(env.ctx, UserInput{Name: "Ama", Email: "not-an-email"})
	requireValidationError(t, err, "email")

	_, err = env.catalog.Users.Create(env.ctx, UserInput{Name: "Ama", Email: "ama@example.com", Role: "owner"})
	requireValidationError(t, err, "role")

	_, err = env.catalog.Users.Get(env.ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserGetOrCreate(t *testing.T) {
	env := newTestEnv(t)

	existing, err := env.catalog.Users.GetOrCreate(env.ctx, UserInput{Name: "Someone", Email: "AMARA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, env.user.ID, existing.ID)

	created, err := env.catalog.Users.GetOrCreate(env.ctx, UserInput{Name: "Zola", Email: "zola@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.NotEqual(t, env.user.ID, created.ID)
	assert.Equal(t, models.RoleAdmin, created.Role)
}
