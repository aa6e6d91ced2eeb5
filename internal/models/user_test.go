package models_test

import (
	"encoding/json"
	"testing"

	"akun/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_ApplyDefaults(t *testing.T) {
	u := &models.User{}
	u.ApplyDefaults()
	assert.Equal(t, models.DefaultPhoto, u.Photo)
	assert.Equal(t, "bio", u.Bio)

	custom := &models.User{Photo: "https://example.com/me.png", Bio: "gopher"}
	custom.ApplyDefaults()
	assert.Equal(t, "https://example.com/me.png", custom.Photo)
	assert.Equal(t, "gopher", custom.Bio)
}

func TestUser_NeverSerializesPassword(t *testing.T) {
	u := models.User{ID: "u-1", Name: "Ana", Email: "ana@example.com", Password: "$2a$10$hash"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$10$hash")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "u-1", decoded["_id"])
}

func TestUser_Redacted(t *testing.T) {
	u := models.User{ID: "u-1", Password: "hash"}
	r := u.Redacted()
	assert.Empty(t, r.Password)
	assert.Equal(t, "u-1", r.ID)
	// The receiver keeps its hash.
	assert.Equal(t, "hash", u.Password)
}
