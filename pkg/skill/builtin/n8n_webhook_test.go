package builtin

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smilemakc/flowcore/pkg/skill"
)

func TestN8NWebhook_NoSecretConfigured(t *testing.T) {
	s := NewN8NWebhook()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"payload": map[string]any{"a": 1}},
	})
	assert.Equal(t, skill.StatusSuccess, res.Status)
	assert.Equal(t, true, res.Outputs["authorized"])
}

func TestN8NWebhook_BcryptSecretAccepted(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sekret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	s := NewN8NWebhook()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{
			"payload":      map[string]any{},
			"bearer_token": "sekret",
			"secret_hash":  string(hash),
		},
	})
	assert.Equal(t, skill.StatusSuccess, res.Status)
}

func TestN8NWebhook_BcryptSecretRejected(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("sekret"), bcrypt.DefaultCost)
	require.NoError(t, err)

	s := NewN8NWebhook()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{
			"payload":      map[string]any{},
			"bearer_token": "wrong",
			"secret_hash":  string(hash),
		},
	})
	assert.Equal(t, skill.StatusFailed, res.Status)
	assert.Contains(t, res.Error, "rejected")
}

func TestN8NWebhook_JWTAccepted(t *testing.T) {
	secret := "topsecret"
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "caller"})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	s := NewN8NWebhook()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{
			"payload":      map[string]any{},
			"bearer_token": signed,
			"jwt_secret":   secret,
		},
	})
	assert.Equal(t, skill.StatusSuccess, res.Status)
}
