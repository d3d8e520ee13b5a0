package submission

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgrid/internal/mockapi"
)

func newCollaborator(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	mockapi.NewHandler(nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClient_Accepted(t *testing.T) {
	srv := newCollaborator(t)
	c := NewHTTPClient(srv.URL+"/api/result", time.Second)

	out, err := c.Submit(context.Background(), Request{X: 2, Y: 2, Steps: 0, Email: "lady@gaga.com"})
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.Equal(t, "lady win #31", out.Message)
}

func TestHTTPClient_Rejected(t *testing.T) {
	srv := newCollaborator(t)
	c := NewHTTPClient(srv.URL+"/api/result", time.Second)

	out, err := c.Submit(context.Background(), Request{X: 2, Y: 2, Steps: 0, Email: "bad@email"})
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, "Ouch: email must be a valid email", out.Message)
}

func TestHTTPClient_OneRequestPerSubmit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "lady@gaga.com", req.Email)
		assert.Equal(t, 3, req.X)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	_, err := c.Submit(context.Background(), Request{X: 3, Y: 1, Steps: 4, Email: "lady@gaga.com"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestHTTPClient_TransportFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		_, err := NewHTTPClient(srv.URL, time.Second).Submit(context.Background(), Request{Email: "x@y.z"})
		assert.ErrorIs(t, err, ErrTransport)
	})
	t.Run("bad body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()
		_, err := NewHTTPClient(srv.URL, time.Second).Submit(context.Background(), Request{Email: "x@y.z"})
		assert.ErrorIs(t, err, ErrTransport)
	})
	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		_, err := NewHTTPClient(url, time.Second).Submit(context.Background(), Request{Email: "x@y.z"})
		assert.ErrorIs(t, err, ErrTransport)
	})
}
