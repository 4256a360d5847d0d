package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/auth/token", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req exchangeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "github", req.Provider)
		assert.Equal(t, "gho_provider", req.AccessToken)

		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken: "dsk_api_token",
			TokenType:   "bearer",
			Username:    "octocat",
		})
	}))
	t.Cleanup(srv.Close)

	token, err := ExchangeToken(context.Background(), srv.URL, "github", "gho_provider", 0)
	require.NoError(t, err)
	assert.Equal(t, "dsk_api_token", token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, "octocat", token.Username)
}

func TestExchangeTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	_, err := ExchangeToken(context.Background(), srv.URL, "github", "bad", 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
