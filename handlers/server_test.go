package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"spicymarket/auth"
	"spicymarket/cart"
	"spicymarket/checkout"
	"spicymarket/i18n"
	"spicymarket/models"
	"spicymarket/storage"
)

type testServer struct {
	router http.Handler
	store  *storage.Store
	queue  chan int64
}

func newTestServer(t *testing.T, limiter *RateLimiter) *testServer {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewStore(storage.NewMemoryKV(), nil)
	require.NoError(t, err)
	_, err = store.SeedProducts(ctx)
	require.NoError(t, err)

	for _, u := range []struct {
		name string
		role models.Role
	}{{"1", models.RoleUser}, {"sami", models.RoleUser}, {"boss", models.RoleAdmin}} {
		hash, err := auth.HashPassword(u.name)
		require.NoError(t, err)
		_, err = store.CreateUser(ctx, models.User{Username: u.name, PasswordHash: hash, Role: u.role, CreatedAt: time.Now().UTC()})
		require.NoError(t, err)
	}

	catalog, err := i18n.Load(i18n.DefaultLanguage, nil)
	require.NoError(t, err)

	if limiter == nil {
		limiter = NewRateLimiter(100, 100)
	}
	queue := make(chan int64, 16)
	router := NewRouter(Deps{
		Store:        store,
		Catalog:      catalog,
		Identity:     &auth.LocalProvider{Users: store},
		Sessions:     auth.NewSessions("test-secret", time.Hour, auth.NewMemoryRegistry()),
		Carts:        cart.NewRegistry(),
		Checkout:     checkout.NewService(store, nil, checkout.WithNotify(queue)),
		LoginLimiter: limiter,
	})
	return &testServer{router: router, store: store, queue: queue}
}

type call struct {
	method string
	path   string
	token  string
	body   any
	lang   string
}

func (s *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if c.body != nil {
		if raw, ok := c.body.(string); ok {
			body.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&body).Encode(c.body))
		}
	}
	req := httptest.NewRequest(c.method, c.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.lang != "" {
		req.Header.Set("Accept-Language", c.lang)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := s.do(t, call{method: http.MethodPost, path: "/auth/login", body: LoginRequest{Username: username, Password: password}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	return decodeBody[errorResponse](t, rec)
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}
