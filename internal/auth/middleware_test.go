package auth_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/project-hub/internal/api/http"
	"github.com/spec-kit/project-hub/internal/auth"
	"github.com/spec-kit/project-hub/internal/domain"
	"github.com/spec-kit/project-hub/internal/observability"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newGateApp(issuer *auth.TokenIssuer) *fiber.App {
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Use(auth.NewGate(issuer, auth.DefaultRouteRules).Handle)

	ok := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	}
	whoami := func(c *fiber.Ctx) error {
		principal, bound := auth.PrincipalFromContext(c)
		if !bound {
			return c.JSON(fiber.Map{"subject": ""})
		}
		return c.JSON(fiber.Map{"subject": principal.SubjectID, "role": principal.Role})
	}

	app.Post("/api/auth/login", ok)
	app.Get("/api/projects", whoami)
	app.Get("/api/admin/stats", ok)
	app.Get("/landing", ok)
	return app
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body errorBody
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestGate(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-signing-key", time.Hour)
	app := newGateApp(issuer)

	t.Run("public route needs no credential", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unmatched route stays permissive", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/landing", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("protected route without header is rejected", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/projects", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHENTICATED", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHENTICATED", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		forged := auth.NewTokenIssuer("attacker-key", time.Hour)
		token, _, err := forged.Issue("42", domain.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHENTICATED", decodeError(t, resp).Error.Code)
	})

	t.Run("expired token reports expiry", func(t *testing.T) {
		expired := auth.NewTokenIssuer("test-signing-key", -time.Hour)
		token, _, err := expired.Issue("42", domain.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "TOKEN_EXPIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("valid token binds the principal", func(t *testing.T) {
		token, _, err := issuer.Issue("42", domain.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "42", body["subject"])
		assert.Equal(t, "USER", body["role"])
	})

	t.Run("admin route rejects a plain user", func(t *testing.T) {
		token, _, err := issuer.Issue("42", domain.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
	})

	t.Run("admin route admits an admin", func(t *testing.T) {
		token, _, err := issuer.Issue("1", domain.RoleAdmin)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
