package builtin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/flowcore/pkg/skill"
)

func TestHTTPRequest_Execute_JSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	s := NewHTTPRequest()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"url": srv.URL},
	})

	require.Equal(t, skill.StatusSuccess, res.Status)
	assert.Equal(t, 200, res.Outputs["status"])
	body, ok := res.Outputs["body"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, body["ok"])
}

func TestHTTPRequest_Execute_NetworkFailure(t *testing.T) {
	s := NewHTTPRequest()
	res := s.Execute(context.Background(), &skill.InvocationContext{
		Inputs: map[string]any{"url": "http://127.0.0.1:0/unreachable"},
	})
	assert.Equal(t, skill.StatusFailed, res.Status)
	assert.NotEmpty(t, res.Error)
}

func TestHTTPRequest_ValidateInputs(t *testing.T) {
	s := NewHTTPRequest()
	errs := s.ValidateInputs(map[string]any{})
	assert.Contains(t, errs, `missing required parameter "url"`)
}
