package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/claripy/internal/history"
	"github.com/dekarrin/claripy/server/api"
	"github.com/dekarrin/claripy/server/dao"
	"github.com/dekarrin/claripy/server/dao/sqlite"
	"github.com/dekarrin/claripy/server/middle"
	"github.com/dekarrin/claripy/server/tunas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) api.API {
	t.Helper()
	dir := t.TempDir()

	users, err := sqlite.NewDatastore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { users.Close() })

	hist, err := history.NewSQLiteStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { hist.Close() })

	return api.API{
		Backend: tunas.Service{DB: users, History: hist},
		Secret:  []byte("test-only-signing-secret-not-for-production-use"),
	}
}

// withAuthContext attaches the login-state values middle.RequireAuth/
// middle.OptionalAuth would normally set, so handlers under test can be
// called directly without going through the full middleware chain.
func withAuthContext(req *http.Request, loggedIn bool, user dao.User) *http.Request {
	ctx := context.WithValue(req.Context(), middle.AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, middle.AuthUser, user)
	return req.WithContext(ctx)
}

func Test_API_CreateTranslation_unauthenticated(t *testing.T) {
	a := newTestAPI(t)

	body, err := json.Marshal(api.TranslateRequest{
		Source:    `Define x as 1; Print x;`,
		Direction: "to_pylite",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withAuthContext(req, false, dao.User{})

	rec := httptest.NewRecorder()
	a.HTTPCreateTranslation()(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.TranslateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Output, "print(x)")
	assert.NotEmpty(t, resp.EntryID)
	assert.Nil(t, resp.Tree)
}

func Test_API_CreateTranslation_includeTree(t *testing.T) {
	a := newTestAPI(t)

	body, err := json.Marshal(api.TranslateRequest{
		Source:      `Print 1;`,
		Direction:   "to_pylite",
		IncludeTree: true,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withAuthContext(req, false, dao.User{})

	rec := httptest.NewRecorder()
	a.HTTPCreateTranslation()(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.TranslateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Tree)
}

func Test_API_CreateTranslation_emptySource(t *testing.T) {
	a := newTestAPI(t)

	body, err := json.Marshal(api.TranslateRequest{Direction: "to_pylite"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withAuthContext(req, false, dao.User{})

	rec := httptest.NewRecorder()
	a.HTTPCreateTranslation()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_API_CreateTranslation_badDirection(t *testing.T) {
	a := newTestAPI(t)

	body, err := json.Marshal(api.TranslateRequest{Source: "Print 1;", Direction: "sideways"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withAuthContext(req, false, dao.User{})

	rec := httptest.NewRecorder()
	a.HTTPCreateTranslation()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_API_GetHistory_filtersByLoggedInUser(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	alice, err := a.Backend.CreateUser(ctx, "alice", "password1", "", dao.Normal)
	require.NoError(t, err)
	bob, err := a.Backend.CreateUser(ctx, "bob", "password1", "", dao.Normal)
	require.NoError(t, err)

	_, err = a.Backend.Translate(ctx, &alice.ID, history.ToPyLite, `Print 1;`)
	require.NoError(t, err)
	_, err = a.Backend.Translate(ctx, &bob.ID, history.ToPyLite, `Print 2;`)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	req = withAuthContext(req, true, alice)

	rec := httptest.NewRecorder()
	a.HTTPGetHistory()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []api.HistoryEntryModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].SourceText, "Print 1")
}

func Test_API_GetHistory_unauthenticatedSeesEverything(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	alice, err := a.Backend.CreateUser(ctx, "alice", "password1", "", dao.Normal)
	require.NoError(t, err)
	_, err = a.Backend.Translate(ctx, &alice.ID, history.ToPyLite, `Print 1;`)
	require.NoError(t, err)
	_, err = a.Backend.Translate(ctx, nil, history.ToPyLite, `Print 2;`)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	req = withAuthContext(req, false, dao.User{})

	rec := httptest.NewRecorder()
	a.HTTPGetHistory()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []api.HistoryEntryModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}

func Test_API_CreateLogin_success(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	created, err := a.Backend.CreateUser(ctx, "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	body, err := json.Marshal(api.LoginRequest{Username: "alice", Password: "hunter2"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	a.HTTPCreateLogin()(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, created.ID.String(), resp.UserID)
}

func Test_API_CreateLogin_badCredentials(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	_, err := a.Backend.CreateUser(ctx, "alice", "hunter2", "", dao.Normal)
	require.NoError(t, err)

	body, err := json.Marshal(api.LoginRequest{Username: "alice", Password: "wrong"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	a.HTTPCreateLogin()(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_API_CreateLogin_missingFields(t *testing.T) {
	a := newTestAPI(t)

	body, err := json.Marshal(api.LoginRequest{Username: "alice"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	a.HTTPCreateLogin()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_API_GetHistory_badLimit(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=not-a-number", nil)
	req = withAuthContext(req, false, dao.User{})

	rec := httptest.NewRecorder()
	a.HTTPGetHistory()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
