package router

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate/internal/auth"
	"realestate/internal/backend"
	"realestate/internal/config"
	"realestate/internal/handler"
	"realestate/internal/repository"
	"realestate/internal/service"
)

const (
	adminEmail    = "admin@realestate.com"
	adminPassword = "admin123"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	ctx := context.Background()
	b := &backend.Mock{Reason: backend.ReasonForced}

	users := repository.NewUserRepository(b)
	invitations := repository.NewInvitationRepository(b)
	properties := repository.NewPropertyRepository(b)

	hasher := auth.NewBcryptHasher(4)
	locks := service.NewKeyedMutex()
	authService, err := service.NewAuthService(users, hasher, auth.NewJWTService("test-secret", 0), auth.NewRevocationStore(nil), locks)
	require.NoError(t, err)
	invitationService := service.NewInvitationService(invitations, users, hasher, locks)
	userService := service.NewUserService(users, hasher, locks)

	_, err = userService.EnsureAdmin(ctx, adminEmail, adminPassword)
	require.NoError(t, err)

	cfg := &config.Config{AllowedOrigins: []string{"*"}, LoginRateLimit: 1000}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	Register(e, cfg, logger, prometheus.NewRegistry(), authService, Handlers{
		Health:   handler.NewHealthHandler(b),
		Auth:     handler.NewAuthHandler(authService, invitationService),
		Property: handler.NewPropertyHandler(service.NewPropertyService(properties, nil)),
		User:     handler.NewUserHandler(userService),
	})
	return e
}

func do(e *echo.Echo, method, target, token, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doJSON(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	return do(e, method, target, token, echo.MIMEApplicationJSON, body)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	rec := do(e, http.MethodPost, "/api/v1/auth/token", "", echo.MIMEApplicationForm, form.Encode())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	session := decode[map[string]any](t, rec)
	assert.Equal(t, "bearer", session["token_type"])
	return session["access_token"].(string)
}

func TestHealthz(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/healthz", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "mock", body["backend"])
	assert.Equal(t, "mock", body["mode"])
}

func TestLogin_FormAndJSON(t *testing.T) {
	e := newTestServer(t)

	token := login(t, e, adminEmail, adminPassword)
	assert.NotEmpty(t, token)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/token", "", `{"email":"admin@realestate.com","password":"admin123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/token", "", `{"email":"admin@realestate.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}

func TestMe_RequiresBearerToken(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/auth/me", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/auth/me", login(t, e, adminEmail, adminPassword), "")
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, adminEmail, me["email"])
	assert.Equal(t, "admin", me["role"])
	assert.NotContains(t, me, "hashed_password")
}

func TestRegister_AlwaysClientAndUnique(t *testing.T) {
	e := newTestServer(t)
	body := `{"email":"c@x.com","full_name":"C","password":"secret1","role":"admin"}`

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "client", decode[map[string]any](t, rec)["role"])

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_TAKEN", decode[map[string]string](t, rec)["code"])

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/register", "", `{"email":"bad","full_name":"C","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPasswordLengthLimit(t *testing.T) {
	e := newTestServer(t)
	long := strings.Repeat("p", 80)
	// 40 runes pass the validator but bcrypt sees 80 bytes.
	wide := strings.Repeat("é", 40)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"long@x.com","full_name":"L","password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "VALIDATION_ERROR", decode[map[string]string](t, rec)["code"])

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"wide@x.com","full_name":"W","password":"`+wide+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "PASSWORD_TOO_LONG", decode[map[string]string](t, rec)["code"])

	longest := strings.Repeat("p", 72)
	rec = doJSON(e, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"max@x.com","full_name":"M","password":"`+longest+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := login(t, e, "max@x.com", longest)

	rec = doJSON(e, http.MethodPut, "/api/v1/auth/update-profile", token,
		`{"current_password":"`+longest+`","new_password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	adminToken := login(t, e, adminEmail, adminPassword)
	rec = doJSON(e, http.MethodPost, "/api/v1/auth/invite", adminToken, `{"email":"i@x.com","role":"client"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inviteToken := decode[map[string]any](t, rec)["token"].(string)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/accept-invitation/"+inviteToken, "",
		`{"email":"i@x.com","full_name":"I","password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestUpdateProfile_ReturnsFreshToken(t *testing.T) {
	e := newTestServer(t)
	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"c@x.com","full_name":"C","password":"secret1"}`).Code)
	token := login(t, e, "c@x.com", "secret1")

	rec := doJSON(e, http.MethodPut, "/api/v1/auth/update-profile", token, `{"new_password":"secret2"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CURRENT_PASSWORD_REQUIRED", decode[map[string]string](t, rec)["code"])

	rec = doJSON(e, http.MethodPut, "/api/v1/auth/update-profile", token, `{"email":"moved@x.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fresh := decode[map[string]any](t, rec)["access_token"].(string)

	assert.Equal(t, http.StatusUnauthorized, doJSON(e, http.MethodGet, "/api/v1/auth/me", token, "").Code)
	assert.Equal(t, http.StatusOK, doJSON(e, http.MethodGet, "/api/v1/auth/me", fresh, "").Code)
}

func TestInvitationFlow(t *testing.T) {
	e := newTestServer(t)
	adminToken := login(t, e, adminEmail, adminPassword)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/invite", adminToken, `{"email":"a@b.com","role":"admin"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inviteToken := decode[map[string]any](t, rec)["token"].(string)

	accept := "/api/v1/auth/accept-invitation/" + inviteToken
	rec = doJSON(e, http.MethodPost, accept, "", `{"email":"other@b.com","full_name":"O","password":"secret1","role":"client"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "admin", decode[map[string]any](t, rec)["role"])

	rec = doJSON(e, http.MethodPost, accept, "", `{"email":"third@b.com","full_name":"T","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVITATION_INVALID_OR_USED", decode[map[string]string](t, rec)["code"])

	rec = doJSON(e, http.MethodGet, "/api/v1/auth/invitations", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	invs := decode[[]map[string]any](t, rec)
	require.Len(t, invs, 1)
	assert.Equal(t, true, invs[0]["is_used"])
}

func TestInvite_RequiresAdmin(t *testing.T) {
	e := newTestServer(t)
	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"c@x.com","full_name":"C","password":"secret1"}`).Code)
	clientToken := login(t, e, "c@x.com", "secret1")

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/invite", clientToken, `{"email":"a@b.com","role":"admin"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/auth/invite", "", `{"email":"a@b.com","role":"admin"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvite_PastExpiryRejected(t *testing.T) {
	e := newTestServer(t)
	adminToken := login(t, e, adminEmail, adminPassword)
	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/invite", adminToken, `{"email":"a@b.com","role":"client","expires_at":"`+past+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProperties_PublicReads(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/properties?min_price=500000&max_price=900000", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, float64(850000), list[0]["price"])

	rec = doJSON(e, http.MethodGet, "/api/v1/properties?location=aspen", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = doJSON(e, http.MethodGet, "/api/v1/properties?skip=1&limit=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[[]map[string]any](t, rec)
	require.Len(t, page, 1)
	assert.Equal(t, "2", page[0]["id"])

	rec = doJSON(e, http.MethodGet, "/api/v1/properties/search?q=VILLA", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = doJSON(e, http.MethodGet, "/api/v1/properties/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-20T00:00:00Z", decode[map[string]any](t, rec)["created_at"])

	assert.Equal(t, http.StatusNotFound, doJSON(e, http.MethodGet, "/api/v1/properties/404", "", "").Code)
}

func TestProperties_QueryValidation(t *testing.T) {
	e := newTestServer(t)

	for _, q := range []string{"limit=0", "limit=101", "skip=-1", "min_price=abc", "limit=ten"} {
		t.Run(q, func(t *testing.T) {
			rec := doJSON(e, http.MethodGet, "/api/v1/properties?"+q, "", "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Equal(t, http.StatusBadRequest, doJSON(e, http.MethodGet, "/api/v1/properties/search", "", "").Code)
}

func TestProperties_AdminWrites(t *testing.T) {
	e := newTestServer(t)
	adminToken := login(t, e, adminEmail, adminPassword)
	create := `{"title":"Loft","description":"Open plan","price":300000,"location":"Austin, TX","property_type":"Loft","bedrooms":1,"bathrooms":1,"area":800}`

	assert.Equal(t, http.StatusUnauthorized, doJSON(e, http.MethodPost, "/api/v1/properties", "", create).Code)

	rec := doJSON(e, http.MethodPost, "/api/v1/properties", adminToken, create)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id := created["id"].(string)
	assert.Equal(t, "available", created["status"])
	assert.Equal(t, []any{}, created["images"])

	rec = doJSON(e, http.MethodPut, "/api/v1/properties/"+id, adminToken, `{"price":999}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[map[string]any](t, rec)
	assert.Equal(t, float64(999), updated["price"])
	assert.Equal(t, "Loft", updated["title"])
	assert.Equal(t, created["created_at"], updated["created_at"])

	assert.Equal(t, http.StatusNotFound, doJSON(e, http.MethodPut, "/api/v1/properties/missing", adminToken, `{"price":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(e, http.MethodPut, "/api/v1/properties/"+id, adminToken, `{"status":"demolished"}`).Code)

	assert.Equal(t, http.StatusOK, doJSON(e, http.MethodDelete, "/api/v1/properties/"+id, adminToken, "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(e, http.MethodDelete, "/api/v1/properties/"+id, adminToken, "").Code)
}

func TestUsers_AdminOnly(t *testing.T) {
	e := newTestServer(t)
	adminToken := login(t, e, adminEmail, adminPassword)
	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"c@x.com","full_name":"C","password":"secret1"}`).Code)

	rec := doJSON(e, http.MethodGet, "/api/v1/users", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = doJSON(e, http.MethodPut, "/api/v1/users/role", adminToken, `{"email":"c@x.com","role":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decode[map[string]any](t, rec)["role"])

	promoted := login(t, e, "c@x.com", "secret1")
	assert.Equal(t, http.StatusOK, doJSON(e, http.MethodGet, "/api/v1/users", promoted, "").Code)
}

func TestLogout(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, adminEmail, adminPassword)

	assert.Equal(t, http.StatusOK, doJSON(e, http.MethodPost, "/api/v1/auth/logout", token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(e, http.MethodPost, "/api/v1/auth/logout", "", "").Code)
}
