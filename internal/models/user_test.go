package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONOmitsPasswordHash(t *testing.T) {
	u := &User{
		ID:           "u-1",
		Email:        "a@b.com",
		PasswordHash: "$2a$12$secret",
		FirstName:    "Ann",
		IsActive:     true,
	}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.NotContains(t, m, "password")
	assert.NotContains(t, m, "passwordHash")
	assert.NotContains(t, string(b), "$2a$12$secret")
	assert.Contains(t, m, "lastLogin")
	assert.Nil(t, m["lastLogin"])
	assert.Equal(t, "Ann", m["firstName"])
	assert.Equal(t, "", m["lastName"])
}

func TestUser_CloneDoesNotShareLastLogin(t *testing.T) {
	now := time.Now()
	u := &User{ID: "u-1", LastLogin: &now}

	c := u.Clone()
	*c.LastLogin = now.Add(time.Hour)

	assert.True(t, u.LastLogin.Equal(now))
}

func TestUser_SanitizedClearsHash(t *testing.T) {
	u := &User{ID: "u-1", PasswordHash: "hash"}

	s := u.Sanitized()

	assert.Empty(t, s.PasswordHash)
	assert.Equal(t, "hash", u.PasswordHash)
}
