package app_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobmarket_backend/internal/app"
	"jobmarket_backend/internal/cache"
	"jobmarket_backend/internal/config"
	"jobmarket_backend/internal/testutil"
)

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
}

func testConfig() *config.Config {
	cfg := &config.Config{
		Server:    config.ServerConfig{Env: "test"},
		Database:  config.DatabaseConfig{Driver: "sqlite", DSN: "memory"},
		JWT:       config.JWTConfig{Secret: "integration-secret"},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{LoginPerSecond: 1, LoginBurst: 50},
	}
	cfg.Sanitize()
	return cfg
}

// NewTestServer serves the full router over a private in-memory database.
func NewTestServer(t *testing.T, mutate ...func(*config.Config)) *TestServer {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	db := testutil.OpenTestDB(t)
	server := httptest.NewServer(app.SetupRouter(cfg, db, cache.NewMemoryCache()))
	t.Cleanup(server.Close)

	return &TestServer{Server: server, DB: db}
}

// SendRequest sends a JSON request and returns the response with its body.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, resBody
}

// Do sends the request, checks the status and decodes the body into out.
func (ts *TestServer) Do(t *testing.T, method, path, token string, body interface{}, wantStatus int, out interface{}) {
	t.Helper()
	res, raw := ts.SendRequest(t, method, path, token, body)
	require.Equal(t, wantStatus, res.StatusCode, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out), "decode %s", raw)
	}
}

// errorCode extracts error.code from an error body.
func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body), "decode %s", raw)
	return body.Error.Code
}

// registerAndLogin creates an account over HTTP and returns its token.
func (ts *TestServer) registerAndLogin(t *testing.T, username, role string) string {
	t.Helper()
	email := username + "@example.com"
	ts.Do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": testutil.DefaultPassword,
		"role":     role,
	}, http.StatusCreated, nil)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	ts.Do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": testutil.DefaultPassword,
	}, http.StatusOK, &login)
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken
}
