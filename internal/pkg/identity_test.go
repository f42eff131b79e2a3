package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIdentity(t *testing.T) {
	t.Run("Uses the first forwarded address, trimmed", func(t *testing.T) {
		// Given: a request that went through two proxies
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "172.16.0.5:41000"
		req.Header.Set(ForwardedForHeader, "  203.0.113.7 , 10.0.0.1")

		// When: deriving the identity
		identity := ClientIdentity(req, true)

		// Then: the original client address is used
		assert.Equal(t, "203.0.113.7", identity)
	})

	t.Run("Ignores the forwarded header when not trusted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "172.16.0.5:41000"
		req.Header.Set(ForwardedForHeader, "203.0.113.7")

		assert.Equal(t, "172.16.0.5", ClientIdentity(req, false))
	})

	t.Run("Falls back to the connection address without port", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "[2001:db8::1]:5555"

		assert.Equal(t, "2001:db8::1", ClientIdentity(req, true))
	})

	t.Run("Falls back on an empty first entry", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.0.2.10:80"
		req.Header.Set(ForwardedForHeader, " , 10.0.0.1")

		assert.Equal(t, "192.0.2.10", ClientIdentity(req, true))
	})

	t.Run("Keeps an address without port as is", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "pipe"

		assert.Equal(t, "pipe", ClientIdentity(req, true))
	})
}

func TestGenerateRoundID(t *testing.T) {
	first := GenerateRoundID()
	second := GenerateRoundID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
