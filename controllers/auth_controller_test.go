package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ricebook-backend/middleware"
	"ricebook-backend/models"
)

func registerBody(username string) map[string]string {
	return map[string]string{
		"username": username,
		"password": "secret123",
		"email":    username + "@example.com",
		"dob":      "1998-07-16",
		"phone":    "123-456-7890",
		"zipcode":  "77005",
	}
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	r, db := newTestServer(t)

	w := doJSON(t, r, "POST", "/register", "", registerBody("reg-alice"))
	env := requireStatus(t, w, http.StatusOK)

	assert.Equal(t, "reg-alice", env.Data["username"])
	assert.Equal(t, "success", env.Data["result"])
	assert.NotEmpty(t, env.Data["token"])

	// session cookie is set
	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			found = true
			assert.NotEmpty(t, c.Value)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "auth cookie missing")

	var user models.User
	require.NoError(t, db.Where("username = ?", "reg-alice").First(&user).Error)
	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, models.DefaultHeadline, profile.Headline)
	assert.Equal(t, "77005", profile.Zipcode)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, "POST", "/register", "", registerBody("reg-dup"))
	requireStatus(t, w, http.StatusOK)

	w = doJSON(t, r, "POST", "/register", "", registerBody("reg-dup"))
	env := requireStatus(t, w, http.StatusConflict)
	assert.Equal(t, 40901, env.Code)
}

func TestRegisterRequiresAllFields(t *testing.T) {
	r, _ := newTestServer(t)

	body := registerBody("reg-incomplete")
	delete(body, "zipcode")
	w := doJSON(t, r, "POST", "/register", "", body)
	requireStatus(t, w, http.StatusBadRequest)
}

func TestRegisterRejectsBadUsernameCharacters(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, "POST", "/register", "", registerBody("bad user!"))
	env := requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, 40002, env.Code)
}

func TestLogin(t *testing.T) {
	r, db := newTestServer(t)
	createUser(t, db, "login-alice")

	w := doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "login-alice",
		"password": "secret123",
	})
	env := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "login-alice", env.Data["username"])
	assert.NotEmpty(t, env.Data["token"])

	w = doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "login-alice",
		"password": "wrong",
	})
	env = requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, 40106, env.Code)

	w = doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "login-nobody",
		"password": "secret123",
	})
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	r, db := newTestServer(t)
	user := createUser(t, db, "logout-alice")
	auth := bearerFor(t, user)

	w := doJSON(t, r, "GET", "/me", auth, nil)
	requireStatus(t, w, http.StatusOK)

	w = doJSON(t, r, "PUT", "/logout", auth, nil)
	env := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "success", env.Data["result"])

	// revoked token no longer authenticates
	w = doJSON(t, r, "GET", "/me", auth, nil)
	env = requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, 40104, env.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, _ := newTestServer(t)

	w := doJSON(t, r, "GET", "/articles", "", nil)
	env := requireStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, 40101, env.Code)
}
