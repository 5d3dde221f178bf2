package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Udhay-Adithya/form-builder-backend/internal/auth"
	"github.com/Udhay-Adithya/form-builder-backend/internal/config"
	"github.com/Udhay-Adithya/form-builder-backend/internal/database"
	"github.com/Udhay-Adithya/form-builder-backend/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:               8080,
		SecretKey:                "test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		ProjectName:              "Form Builder API",
		CORSOrigins:              []string{"http://localhost:3000"},
	}
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := testConfig()
	tokens, err := auth.NewTokenService(cfg)
	require.NoError(t, err)

	return NewRouter(cfg, tokens,
		services.NewUserService(db),
		services.NewFormService(db),
		services.NewResponseService(db),
	)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func register(t *testing.T, router http.Handler, email, password string) map[string]any {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(t, rec)
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "bearer", body["token_type"])
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createForm(t *testing.T, router http.Handler, token, title string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/forms/", token, map[string]any{
		"data": map[string]any{
			"title": title,
			"fields": []map[string]any{
				{"id": "fld1", "type": "text", "order": 0, "label": "Name"},
			},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestRootWelcome(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Form Builder API", decodeBody(t, rec)["message"])
}

func TestRegister(t *testing.T) {
	router := newTestRouter(t)

	body := register(t, router, "a@x.com", "password123")
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, true, body["is_active"])
	assert.Equal(t, false, body["is_superuser"])
	assert.NotContains(t, body, "hashed_password")
	assert.NotContains(t, body, "password")

	t.Run("duplicate email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
			"email":    "a@x.com",
			"password": "password456",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
			"email":    "b@x.com",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
			"email":    "not-an-email",
			"password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "a@x.com", "password123")

	t.Run("form credentials", func(t *testing.T) {
		login(t, router, "a@x.com", "password123")
	})

	t.Run("json credentials", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/token", "", map[string]any{
			"email":    "a@x.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "bearer", decodeBody(t, rec)["token_type"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/token", "", map[string]any{
			"email":    "a@x.com",
			"password": "wrongpassword",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("unknown email", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/token", "", map[string]any{
			"email":    "ghost@x.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetMe(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "a@x.com", "password123")
	token := login(t, router, "a@x.com", "password123")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", decodeBody(t, rec)["email"])

	t.Run("no token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("expired token", func(t *testing.T) {
		expiredCfg := testConfig()
		expiredCfg.AccessTokenExpireMinutes = -1
		expiredTokens, err := auth.NewTokenService(expiredCfg)
		require.NoError(t, err)
		expired, err := expiredTokens.Issue("a@x.com")
		require.NoError(t, err)

		rec := doJSON(t, router, http.MethodGet, "/api/v1/users/me", expired, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestFormOwnership(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "owner@x.com", "password123")
	register(t, router, "intruder@x.com", "password123")
	ownerToken := login(t, router, "owner@x.com", "password123")
	intruderToken := login(t, router, "intruder@x.com", "password123")

	formID := createForm(t, router, ownerToken, "Survey")

	t.Run("create returns owner", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/forms/"+formID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		owner, ok := body["owner"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "owner@x.com", owner["email"])
		assert.NotContains(t, owner, "hashed_password")
	})

	t.Run("anonymous read is public", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/forms/"+formID, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("list shows only own forms", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/forms/", intruderToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var forms []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forms))
		assert.Empty(t, forms)
	})

	update := map[string]any{"data": map[string]any{
		"title":  "Renamed",
		"fields": []map[string]any{},
	}}

	t.Run("update by non-owner is forbidden", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/forms/"+formID, intruderToken, update)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing form is 404 before ownership", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/forms/no-such-id", intruderToken, update)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update by owner replaces document", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/forms/"+formID, ownerToken, update)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		data, ok := decodeBody(t, rec)["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Renamed", data["title"])
	})

	t.Run("delete by non-owner is forbidden", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/forms/"+formID, intruderToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("delete by owner returns snapshot", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/forms/"+formID, ownerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, formID, decodeBody(t, rec)["id"])

		rec = doJSON(t, router, http.MethodGet, "/api/v1/forms/"+formID, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFormListPaginationBounds(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "a@x.com", "password123")
	token := login(t, router, "a@x.com", "password123")

	for _, query := range []string{"limit=0", "limit=201", "skip=-1", "limit=abc"} {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/forms/?"+query, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/forms/?skip=0&limit=200", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponses(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "owner@x.com", "password123")
	register(t, router, "intruder@x.com", "password123")
	ownerToken := login(t, router, "owner@x.com", "password123")
	intruderToken := login(t, router, "intruder@x.com", "password123")

	formID := createForm(t, router, ownerToken, "Survey")
	responsesPath := fmt.Sprintf("/api/v1/forms/%s/responses/", formID)

	t.Run("anonymous submission", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, responsesPath, "", map[string]any{
			"data": map[string]any{"fld1": "hi"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		assert.Equal(t, formID, body["form_id"])
	})

	t.Run("submission to missing form is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/forms/no-such-id/responses/", "", map[string]any{
			"data": map[string]any{"fld1": "hi"},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("owner lists responses", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, responsesPath, ownerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		data, ok := got[0]["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "hi", data["fld1"])
	})

	t.Run("non-owner cannot list responses", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, responsesPath, intruderToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous cannot list responses", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, responsesPath, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("pagination bounds", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, responsesPath+"?limit=5001", ownerToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(t, router, http.MethodGet, responsesPath+"?skip=0&limit=5000", ownerToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

// Full register → login → create → submit → list flow in one pass.
func TestEndToEndFlow(t *testing.T) {
	router := newTestRouter(t)

	register(t, router, "a@x.com", "password123")
	token := login(t, router, "a@x.com", "password123")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/forms/", token, map[string]any{
		"data": map[string]any{
			"title":  "Survey",
			"fields": []map[string]any{{"id": "fld1", "type": "text", "order": 0}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	form := decodeBody(t, rec)
	owner, ok := form["owner"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", owner["email"])

	formID := form["id"].(string)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/forms/"+formID+"/responses/", "", map[string]any{
		"data": map[string]any{"fld1": "hi"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/forms/"+formID+"/responses/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var responses []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responses))
	require.Len(t, responses, 1)
	data := responses[0]["data"].(map[string]any)
	assert.Equal(t, "hi", data["fld1"])
}
