package hevy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hevymcp "github.com/jamoski3112/hevy-mcp"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/v1/", "secret")
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	_, err := New("", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New("ftp://example.com", "k")
	require.Error(t, err)

	_, err = New("://bad", "k")
	require.Error(t, err)

	c, err := New("", "k", WithTimeout(5*time.Second))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 5*time.Second, c.http.Timeout)

	hc := &http.Client{}
	c, err = New("https://api.example.com/v1/", "k", WithHTTPClient(hc), WithLogger(nil))
	require.NoError(t, err)
	assert.Same(t, hc, c.http)
	assert.Equal(t, "https://api.example.com/v1", c.baseURL)
	assert.NotNil(t, c.logger)
}

func TestClient_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/workouts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"page":2,"workouts":[]}`)
	})
	out, err := c.Get(context.Background(), "/workouts", url.Values{"page": {"2"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":2,"workouts":[]}`, string(out))
}

func TestClient_PostPutBody(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, method, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				body, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, `{"routine_folder":{"title":"Push"}}`, string(body))
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, `{"routine_folder":{"id":1,"title":"Push"}}`)
			})
			body := map[string]any{"routine_folder": map[string]any{"title": "Push"}}
			var (
				out json.RawMessage
				err error
			)
			if method == http.MethodPost {
				out, err = c.Post(context.Background(), "/routine_folders", body)
			} else {
				out, err = c.Put(context.Background(), "/routine_folders/1", body)
			}
			require.NoError(t, err)
			assert.JSONEq(t, `{"routine_folder":{"id":1,"title":"Push"}}`, string(out))
		})
	}
}

func TestClient_DeleteEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	out, err := c.Delete(context.Background(), "/workouts/abc")
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestClient_NonJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "OK")
	})
	out, err := c.Delete(context.Background(), "/routines/abc")
	require.NoError(t, err)
	assert.Equal(t, `"OK"`, string(out))
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Workout not found"}`)
	})
	_, err := c.Get(context.Background(), "/workouts/x", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode())
	assert.Equal(t, `{"error":"Workout not found"}`, string(apiErr.ResponseBody()))
	assert.Equal(t, "Workout not found", apiErr.Message())
	assert.Contains(t, apiErr.Error(), "status 404")

	var se hevymcp.StatusError
	assert.True(t, errors.As(err, &se))
}

func TestAPIError_Message(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error":"bad"}`, "bad"},
		{`{"message":"nope"}`, "nope"},
		{`{"error":{"code":1}}`, `{"error":{"code":1}}`},
		{`Unauthorized`, "Unauthorized"},
		{``, "empty response"},
	}
	for _, tt := range tests {
		e := &APIError{Status: 400, Body: []byte(tt.body)}
		assert.Equal(t, tt.want, e.Message(), tt.body)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(base, "k")
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "/user/info", nil)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c, err := New(srv.URL, "k", WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "/workouts", nil)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
