package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ricebook-backend/models"
)

func TestHeadlineGetAndUpdate(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "prof-alice")
	bob := createUser(t, db, "prof-bob")
	auth := bearerFor(t, alice)

	// own headline defaults
	w := doJSON(t, r, "GET", "/headline", auth, nil)
	env := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "prof-alice", env.Data["username"])
	assert.Equal(t, models.DefaultHeadline, env.Data["headline"])

	// update own headline
	w = doJSON(t, r, "PUT", "/headline", auth, map[string]string{"headline": "hello there"})
	env = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "hello there", env.Data["headline"])

	// another user reads it by name
	w = doJSON(t, r, "GET", "/headline/prof-alice", bearerFor(t, bob), nil)
	env = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "hello there", env.Data["headline"])

	// unknown user
	w = doJSON(t, r, "GET", "/headline/prof-nobody", auth, nil)
	requireStatus(t, w, http.StatusNotFound)
}

func TestProfileFieldEndpoints(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "field-alice")
	auth := bearerFor(t, alice)

	w := doJSON(t, r, "GET", "/dob", auth, nil)
	env := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "1998-07-16", env.Data["dob"])

	w = doJSON(t, r, "PUT", "/zipcode", auth, map[string]string{"zipcode": "10001"})
	env = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "10001", env.Data["zipcode"])

	w = doJSON(t, r, "GET", "/zipcode", auth, nil)
	env = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "10001", env.Data["zipcode"])

	w = doJSON(t, r, "PUT", "/email", auth, map[string]string{"email": "new@example.com"})
	env = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "new@example.com", env.Data["email"])

	w = doJSON(t, r, "PUT", "/phone", auth, map[string]string{"phone": "987-654-3210"})
	env = requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "987-654-3210", env.Data["phone"])

	// missing body field
	w = doJSON(t, r, "PUT", "/email", auth, map[string]string{})
	requireStatus(t, w, http.StatusBadRequest)
}

func TestUpdateAvatarQueuesReplacedUpload(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "ava-alice")
	auth := bearerFor(t, alice)

	// seed a locally stored avatar
	old := "/static/uploads/avatars/2026/01/1_1_old.png"
	require.NoError(t, db.Model(&models.Profile{}).Where("username = ?", "ava-alice").
		Update("avatar_url", old).Error)

	w := doJSON(t, r, "PUT", "/avatar", auth, map[string]string{"avatar": "https://cdn.example.com/new.png"})
	env := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "https://cdn.example.com/new.png", env.Data["avatar"])

	// the replaced local file is queued for the cleaner
	var queued []models.UploadedFile
	require.NoError(t, db.Find(&queued).Error)
	require.Len(t, queued, 1)
	assert.Equal(t, old, queued[0].URL)

	// replacing an external URL queues nothing new
	w = doJSON(t, r, "PUT", "/avatar", auth, map[string]string{"avatar": "https://cdn.example.com/other.png"})
	requireStatus(t, w, http.StatusOK)
	require.NoError(t, db.Find(&queued).Error)
	assert.Len(t, queued, 1)
}

func TestUpdatePassword(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "pwd-alice")
	auth := bearerFor(t, alice)

	w := doJSON(t, r, "PUT", "/password", auth, map[string]string{"password": "brand-new-pass"})
	env := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, "success", env.Data["result"])

	// old password no longer works
	w = doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "pwd-alice",
		"password": "secret123",
	})
	requireStatus(t, w, http.StatusUnauthorized)

	// new one does
	w = doJSON(t, r, "POST", "/login", "", map[string]string{
		"username": "pwd-alice",
		"password": "brand-new-pass",
	})
	requireStatus(t, w, http.StatusOK)
}
