package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", opts...)
}

func TestClient_attachesBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]string{"full_name": "Иван Петров"})
	})

	var out struct {
		FullName string `json:"full_name"`
	}
	err := c.Get(WithToken(context.Background(), "tkn"), "/auth/me", &out)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tkn", gotAuth)
	assert.Equal(t, "/api/auth/me", gotPath)
	assert.Equal(t, "Иван Петров", out.FullName)
}

func TestClient_noTokenNoHeader(t *testing.T) {
	var hasAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.Delete(context.Background(), "/groups/1"))
	assert.False(t, hasAuth)
}

func TestClient_noContentReturnsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	out := map[string]any{"untouched": true}
	require.NoError(t, c.Get(context.Background(), "/x", &out))
	assert.Equal(t, map[string]any{"untouched": true}, out)
}

func TestClient_unauthorizedCallsHook(t *testing.T) {
	var hookCalls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}, OnUnauthorized(func(ctx context.Context) { hookCalls++ }))

	err := c.Get(WithToken(context.Background(), "old"), "/groups", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 1, hookCalls)
}

func TestClient_errorDetail(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		notFound bool
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Group not found"}`, "Group not found", false},
		{"not found", http.StatusNotFound, `{"detail":"Tournament not found"}`, "Tournament not found", true},
		{"validation list", http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","name"],"msg":"field required"},{"loc":["body","age_group"],"msg":"invalid"}]}`,
			"name: field required; age_group: invalid", false},
		{"not json", http.StatusInternalServerError, `<html>oops</html>`, "Не удалось выполнить запрос, попробуйте ещё раз", false},
		{"empty detail", http.StatusConflict, `{"detail":""}`, "Не удалось выполнить запрос, попробуйте ещё раз", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			err := c.Post(context.Background(), "/groups", map[string]string{"name": ""}, nil)
			require.Error(t, err)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, Message(err))
			assert.Equal(t, tt.notFound, IsNotFound(err))
		})
	}
}

func TestClient_sendsJSONBody(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})
	require.NoError(t, c.Put(context.Background(), "/settings/prices/update", map[string]int{"subscription_8_senior_price": 4200}, nil))
	assert.Equal(t, float64(4200), got["subscription_8_senior_price"])
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		if r.PostForm.Get("username") != "admin" || r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	}, OnUnauthorized(func(ctx context.Context) { t.Error("login must not trigger the session hook") }))

	token, err := c.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", token.AccessToken)

	_, err = c.Login(context.Background(), "admin", "wrong")
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, "Incorrect username or password", Message(err))
}

func TestClient_networkErrorIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := New(srv.URL)

	err := c.Get(context.Background(), "/groups", nil)
	require.Error(t, err)
	assert.Equal(t, "Не удалось выполнить запрос, попробуйте ещё раз", Message(err))
}

func TestClient_metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, WithMetrics(m))

	require.NoError(t, c.Get(context.Background(), "/attendance/date/0b8f5c2e-6f0d-4a47-9a55-3a1f2a0c9d11/2026-06-15", nil))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/attendance/date/:id/:date", "200")))
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/payments/month/:n/:n", endpointLabel("/payments/month/2026/06"))
	assert.Equal(t, "/students", endpointLabel("/students?group_id=1&is_active=true"))
	assert.Equal(t, "/tournaments/:id/participants/:id",
		endpointLabel("/tournaments/0b8f5c2e-6f0d-4a47-9a55-3a1f2a0c9d11/participants/1b8f5c2e-6f0d-4a47-9a55-3a1f2a0c9d11"))
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	got, ok := TokenExpiry(raw)
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)
}
