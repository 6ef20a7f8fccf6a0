package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	h := NewHandler(nil, []byte("test-secret"))

	token, err := h.generateToken("anon-123")
	require.NoError(t, err)

	anonID, err := h.validateAndGetAnonID(token)
	require.NoError(t, err)
	assert.Equal(t, "anon-123", anonID)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewHandler(nil, []byte("secret-one"))
	verifier := NewHandler(nil, []byte("secret-two"))

	token, err := issuer.generateToken("anon-123")
	require.NoError(t, err)

	_, err = verifier.validateAndGetAnonID(token)
	assert.Error(t, err)
}

func TestTokenGarbageRejected(t *testing.T) {
	h := NewHandler(nil, []byte("test-secret"))

	_, err := h.validateAndGetAnonID("not-a-token")
	assert.Error(t, err)
}

func TestGetAnonID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, []byte("test-secret"))

	r := gin.New()
	r.GET("/anonid", h.GetAnonID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/anonid", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token  string `json:"token"`
		AnonID string `json:"anon_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	_, err := uuid.Parse(body.AnonID)
	assert.NoError(t, err, "anon ids are UUIDs")

	// The issued token resolves back to the same id.
	anonID, err := h.validateAndGetAnonID(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.AnonID, anonID)
}
