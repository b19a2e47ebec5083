package profiles_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sponsorlane/backend/internal/identity"
	"github.com/sponsorlane/backend/internal/middleware"
	"github.com/sponsorlane/backend/internal/profiles"
)

const testSecret = "handler-test-secret"

func newRouter(svc *profiles.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := profiles.NewHandler(svc)
	api := router.Group("")
	api.Use(middleware.Auth(identity.NewVerifier(testSecret)))
	api.POST("/profiles", h.Provision)
	api.GET("/profiles/:id", h.Get)
	api.PATCH("/profiles/:id", h.Update)
	return router
}

func mintToken(t *testing.T, principal uuid.UUID) string {
	t.Helper()
	claims := identity.Claims{
		PrincipalID: principal,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func do(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlerStatusMapping(t *testing.T) {
	e := newEnv(t)
	router := newRouter(e.svc)

	owner := uuid.New()
	stranger := uuid.New()
	ownerToken := mintToken(t, owner)
	strangerToken := mintToken(t, stranger)

	// Anonymous requests never reach the policy engine.
	w := do(router, http.MethodGet, "/profiles/"+owner.String(), "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Provision both principals.
	w = do(router, http.MethodPost, "/profiles", ownerToken, `{"name":"Acme","company_name":"Acme GmbH","role":"organizer"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(router, http.MethodPost, "/profiles", strangerToken, `{"name":"Other","role":"sponsor"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate provisioning is a client error.
	w = do(router, http.MethodPost, "/profiles", ownerToken, `{"name":"Acme","role":"organizer"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Reading someone else's profile is forbidden, not hidden as 404.
	w = do(router, http.MethodGet, "/profiles/"+owner.String(), strangerToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Reading your own profile works.
	w = do(router, http.MethodGet, "/profiles/"+owner.String(), ownerToken, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acme GmbH")

	// A role change attempt is a constraint violation.
	w = do(router, http.MethodPatch, "/profiles/"+owner.String(), ownerToken, `{"role":"sponsor"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "role")

	// An invalid role at provisioning is rejected the same way.
	freshToken := mintToken(t, uuid.New())
	w = do(router, http.MethodPost, "/profiles", freshToken, `{"name":"X","role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
