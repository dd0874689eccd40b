package rtdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, "", 100), server
}

func TestClient_Get_AbsentPathDecodesNull(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/loans.json", r.URL.Path)
		_, _ = w.Write([]byte("null"))
	})
	defer server.Close()

	var out map[string]any
	err := client.Get(context.Background(), "loans", &out)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestClient_Push_ReturnsGeneratedKey(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"title":"Dune"}`, string(body))
		_, _ = w.Write([]byte(`{"name":"-Nxy123"}`))
	})
	defer server.Close()

	key, err := client.Push(context.Background(), "loans", map[string]string{"title": "Dune"})
	require.NoError(t, err)
	assert.Equal(t, "-Nxy123", key)
}

func TestClient_Patch_SendsPatchVerbAndFields(t *testing.T) {
	var gotMethod, gotBody string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{}`))
	})
	defer server.Close()

	err := client.Patch(context.Background(), "loans/abc", map[string]any{"status": "returned"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.JSONEq(t, `{"status":"returned"}`, gotBody)
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	err := client.Set(context.Background(), "loans/abc", map[string]string{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_AuthTokenAppended(t *testing.T) {
	var gotQuery string
	client := func() *Client {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			_, _ = w.Write([]byte("null"))
		}))
		t.Cleanup(server.Close)
		return NewClient(server.URL, "secret-token", 100)
	}()

	var out any
	require.NoError(t, client.Get(context.Background(), "loans", &out))
	assert.Equal(t, "auth=secret-token", gotQuery)
}
