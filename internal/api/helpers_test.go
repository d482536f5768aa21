package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"barrage-board/internal/auth"
	"barrage-board/internal/database"
	"barrage-board/internal/models"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// createTestUser inserts a user with a random suffix and returns it with a
// valid bearer token.
func createTestUser(t *testing.T, prefix, password string, active bool) (*models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user, err := testServer.store.CreateUser(context.Background(), database.CreateUserParams{
		Username:       prefix + "_" + uuid.NewString()[:8],
		HashedPassword: hash,
		IsActive:       active,
	})
	require.NoError(t, err)

	token, err := testServer.tokens.Issue(user.Username)
	require.NoError(t, err)

	return user, token
}

func doRequest(t *testing.T, handler http.Handler, method, target, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func doJSON(t *testing.T, method, target, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = strings.NewReader(string(data))
	}
	return doRequest(t, testRouter, method, target, token, body, "application/json")
}

func login(t *testing.T, handler http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	if username != "" {
		form.Set("username", username)
	}
	if password != "" {
		form.Set("password", password)
	}
	return doRequest(t, handler, http.MethodPost, "/api/v1/auth/token", "",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func requireDetail(t *testing.T, rr *httptest.ResponseRecorder, status int) string {
	t.Helper()
	require.Equal(t, status, rr.Code, rr.Body.String())

	var resp ErrorResponse
	decodeBody(t, rr, &resp)
	require.NotEmpty(t, resp.Detail)
	return resp.Detail
}

func resetBarrages(t *testing.T) {
	t.Helper()
	_, err := testServer.store.GetPool().Exec(context.Background(), `TRUNCATE barrages RESTART IDENTITY`)
	require.NoError(t, err)
}

func insertBarrage(t *testing.T, userID, nickname string, at time.Time, payload string) {
	t.Helper()
	_, err := testServer.store.GetPool().Exec(context.Background(),
		`INSERT INTO barrages (userid, nickname, time, chatmsg) VALUES ($1, $2, $3, $4::jsonb)`,
		userID, nickname, at, payload)
	require.NoError(t, err)
}

func doRequestWithHeader(t *testing.T, target, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", authorization)

	rr := httptest.NewRecorder()
	testRouter.ServeHTTP(rr, req)
	return rr
}

func newPreflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/barrages", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	return req
}

func serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	testRouter.ServeHTTP(rr, req)
	return rr
}
