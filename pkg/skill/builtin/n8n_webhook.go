package builtin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// N8NWebhook validates an inbound webhook payload against an optional
// bearer secret — a plain token checked against a bcrypt hash, or a bearer
// JWT verified with jwt_secret when the token has the three-part JWT shape
// — and echoes the payload as
// output. Grounded on the teacher's auth package's bcrypt/JWT pairing
// (backend/internal/application/auth/password_service.go and jwt_service),
// narrowed to a single webhook-secret check.
type N8NWebhook struct {
	skill.BaseSkill
}

func NewN8NWebhook() *N8NWebhook { return &N8NWebhook{} }

func (s *N8NWebhook) Definition() skill.Definition {
	return skill.Definition{
		ID:          "n8n_webhook",
		Name:        "n8n Webhook",
		Description: "Validates an inbound webhook payload against an optional bearer secret.",
		Category:    skill.CategoryIntegration,
		Parameters: []skill.Parameter{
			{Name: "payload", Type: "object", Required: true, Description: "Inbound webhook payload"},
			{Name: "bearer_token", Type: "string", Required: false, Description: "Bearer token presented by the caller"},
			{Name: "secret_hash", Type: "string", Required: false, Description: "bcrypt hash of the expected plain token"},
			{Name: "jwt_secret", Type: "string", Required: false, Description: "HMAC secret, when bearer_token is a JWT"},
		},
		Outputs: []skill.Output{
			{Name: "authorized", Type: "boolean"},
			{Name: "payload", Type: "object"},
		},
		TimeoutSeconds: 15,
		Icon:           "webhook",
		Color:          "#4338ca",
	}
}

func (s *N8NWebhook) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *N8NWebhook) Execute(_ context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()
	payload, _ := s.GetMap(ic.Inputs, "payload")
	secretHash, hasHash := s.GetString(ic.Inputs, "secret_hash")
	jwtSecret, hasJWT := s.GetString(ic.Inputs, "jwt_secret")
	token, _ := s.GetString(ic.Inputs, "bearer_token")

	authorized := true
	var authErr error
	switch {
	case hasJWT && jwtSecret != "" && strings.Count(token, ".") == 2:
		authorized, authErr = verifyJWT(token, jwtSecret)
	case hasHash && secretHash != "":
		authorized = bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(token)) == nil
	}

	if authErr != nil {
		r := skill.Failed(authErr)
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}
	if !authorized {
		r := skill.Failed(errors.New("webhook bearer credential rejected"))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	res := skill.Succeeded(map[string]any{"authorized": true, "payload": payload}, "webhook accepted")
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

func verifyJWT(token, secret string) (bool, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return false, fmt.Errorf("jwt verification failed: %w", err)
	}
	return parsed.Valid, nil
}
