package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girik/portfolio-share-be/internal/database"
	"github.com/girik/portfolio-share-be/internal/services"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	return newTestServerWithDB(t, db)
}

func newTestServerWithDB(t *testing.T, db *sql.DB) http.Handler {
	t.Helper()
	return NewRouter(services.NewUserService(db), services.NewPortfolioService(db), testSecret, "http://localhost:3000")
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func registerAndToken(t *testing.T, h http.Handler, name, email string) (token, userID string) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "p",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	token = body["token"].(string)
	user := body["user"].(map[string]interface{})
	return token, user["id"].(string)
}

func TestHealthCheck(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Portfolio Sharing API is running", decodeBody(t, rec)["message"])
}

func TestRegisterLoginFlow(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann", "email": "ann@x.com", "password": "p",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "Ann", user["name"])
	assert.Nil(t, user["passwordHash"], "hash must never appear in responses")

	// Missing fields
	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "x@x.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate email
	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ann Again", "email": "ann@x.com", "password": "q",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeBody(t, rec)["error"])

	// Login
	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ann@x.com", "password": "p",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", decodeBody(t, rec)["message"])

	// Wrong password and unknown email produce the same response shape
	recWrong := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ann@x.com", "password": "wrong",
	})
	recUnknown := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "p",
	})
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, recWrong.Body.String(), recUnknown.Body.String())
}

func TestPortfolioLifecycle(t *testing.T) {
	h := newTestServer(t)

	annToken, annID := registerAndToken(t, h, "Ann", "ann@x.com")

	// Unauthenticated create is rejected
	rec := doJSON(t, h, http.MethodPost, "/api/portfolio/create", "", map[string]string{
		"title": "Site", "description": "d",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated create; owner comes from the token, not the payload
	rec = doJSON(t, h, http.MethodPost, "/api/portfolio/create", annToken, map[string]interface{}{
		"title": "Site", "description": "d", "userId": map[string]string{"id": "someone-else"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.Equal(t, "Portfolio created successfully", created["message"])
	portfolio := created["portfolio"].(map[string]interface{})
	portfolioID := portfolio["id"].(string)
	owner := portfolio["userId"].(map[string]interface{})
	assert.Equal(t, annID, owner["id"])
	assert.Equal(t, []interface{}{}, portfolio["technologies"])

	// Public listing resolves the owner
	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/all", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, "Ann", all[0]["userId"].(map[string]interface{})["name"])

	// Public single fetch
	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/"+portfolioID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOwnershipOverHTTP(t *testing.T) {
	h := newTestServer(t)

	annToken, _ := registerAndToken(t, h, "Ann", "ann@x.com")
	bobToken, _ := registerAndToken(t, h, "Bob", "bob@x.com")

	rec := doJSON(t, h, http.MethodPost, "/api/portfolio/create", annToken, map[string]string{
		"title": "Site", "description": "d",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	portfolioID := decodeBody(t, rec)["portfolio"].(map[string]interface{})["id"].(string)

	// Bob may not touch Ann's portfolio
	rec = doJSON(t, h, http.MethodPut, "/api/portfolio/"+portfolioID, bobToken, map[string]string{"title": "Hijack"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/portfolio/"+portfolioID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Ann's own update succeeds and is immediately readable
	rec = doJSON(t, h, http.MethodPut, "/api/portfolio/"+portfolioID, annToken, map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/"+portfolioID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decodeBody(t, rec)["title"])

	// And so does the delete
	rec = doJSON(t, h, http.MethodDelete, "/api/portfolio/"+portfolioID, annToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Portfolio deleted successfully", decodeBody(t, rec)["message"])

	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/"+portfolioID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// 404 beats 403: a deleted id is not found even for a non-owner
	rec = doJSON(t, h, http.MethodDelete, "/api/portfolio/"+portfolioID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMyPortfolios(t *testing.T) {
	h := newTestServer(t)

	annToken, annID := registerAndToken(t, h, "Ann", "ann@x.com")
	bobToken, _ := registerAndToken(t, h, "Bob", "bob@x.com")

	rec := doJSON(t, h, http.MethodPost, "/api/portfolio/create", annToken, map[string]string{
		"title": "Ann first", "description": "d",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	time.Sleep(5 * time.Millisecond)
	rec = doJSON(t, h, http.MethodPost, "/api/portfolio/create", bobToken, map[string]string{
		"title": "Bob's", "description": "d",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	time.Sleep(5 * time.Millisecond)
	rec = doJSON(t, h, http.MethodPost, "/api/portfolio/create", annToken, map[string]string{
		"title": "Ann second", "description": "d",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Requires a token
	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/my-portfolios", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/my-portfolios", annToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine, 2)
	assert.Equal(t, "Ann second", mine[0]["title"])
	assert.Equal(t, "Ann first", mine[1]["title"])
	for _, p := range mine {
		assert.Equal(t, annID, p["userId"].(map[string]interface{})["id"])
	}
}

func TestTechnologiesRoundTripOverHTTP(t *testing.T) {
	h := newTestServer(t)

	annToken, _ := registerAndToken(t, h, "Ann", "ann@x.com")

	rec := doJSON(t, h, http.MethodPost, "/api/portfolio/create", annToken, map[string]interface{}{
		"title": "Site", "description": "d", "technologies": []string{"Go", "React"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	portfolioID := decodeBody(t, rec)["portfolio"].(map[string]interface{})["id"].(string)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/"+portfolioID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"Go", "React"}, decodeBody(t, rec)["technologies"])
}
