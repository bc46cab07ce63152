package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rabiazulfiqar1/Content-Based-RS/internal/transport"
)

func TestAuthErrorFrom(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{"description", 400, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, "invalid_grant", "Invalid login credentials"},
		{"msg", 422, `{"error_code":"weak_password","msg":"Password is too weak"}`, "weak_password", "Password is too weak"},
		{"html page", 502, "<html><body><h1>502 Bad Gateway</h1></body></html>", "", "Bad Gateway"},
		{"plain text", 503, "  upstream connect error\n", "", "upstream connect error"},
		{"empty body", 500, "", "", "Internal Server Error"},
		{"json without fields", 429, `{}`, "", "Too Many Requests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := authErrorFrom(transport.NewResponse("req-1", tt.status, []byte(tt.body)))
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.message, e.Error())
		})
	}

	t.Run("long text is cut", func(t *testing.T) {
		e := authErrorFrom(transport.NewResponse("req-1", 500, []byte(strings.Repeat("x", 500))))
		assert.Len(t, []rune(e.Message), maxRawErrorLength+1)
		assert.True(t, strings.HasSuffix(e.Message, "…"))
	})
}

func TestGoTrue_ProxyErrorPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html><body>502 Bad Gateway</body></html>"))
	}))
	t.Cleanup(server.Close)

	_, err := NewGoTrue(server.URL, "anon-key").PasswordGrant(context.Background(), "ada@example.com", "secret")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadGateway, authErr.Status)
	assert.Equal(t, "Bad Gateway", authErr.Message)
}
