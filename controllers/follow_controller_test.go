package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followingNames(t *testing.T, env envelope) []string {
	t.Helper()
	raw, ok := env.Data["following"].([]interface{})
	require.True(t, ok)
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		names = append(names, v.(string))
	}
	return names
}

func TestFollowAndUnfollow(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "fol-alice")
	createUser(t, db, "fol-bob")
	createUser(t, db, "fol-carol")
	auth := bearerFor(t, alice)

	// empty to begin with
	w := doJSON(t, r, "GET", "/following", auth, nil)
	env := requireStatus(t, w, http.StatusOK)
	assert.Empty(t, followingNames(t, env))

	// follow two users
	w = doJSON(t, r, "PUT", "/following/fol-bob", auth, nil)
	env = requireStatus(t, w, http.StatusOK)
	assert.ElementsMatch(t, []string{"fol-bob"}, followingNames(t, env))

	w = doJSON(t, r, "PUT", "/following/fol-carol", auth, nil)
	env = requireStatus(t, w, http.StatusOK)
	assert.ElementsMatch(t, []string{"fol-bob", "fol-carol"}, followingNames(t, env))

	// someone else can read the list by name
	bobAuth := bearerFor(t, mustUser(t, db, "fol-bob"))
	w = doJSON(t, r, "GET", "/following/fol-alice", bobAuth, nil)
	env = requireStatus(t, w, http.StatusOK)
	assert.ElementsMatch(t, []string{"fol-bob", "fol-carol"}, followingNames(t, env))

	// unfollow
	w = doJSON(t, r, "DELETE", "/following/fol-bob", auth, nil)
	env = requireStatus(t, w, http.StatusOK)
	assert.ElementsMatch(t, []string{"fol-carol"}, followingNames(t, env))
}

func TestFollowErrorCases(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "fole-alice")
	createUser(t, db, "fole-bob")
	auth := bearerFor(t, alice)

	// self-follow
	w := doJSON(t, r, "PUT", "/following/fole-alice", auth, nil)
	env := requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, 40040, env.Code)

	// unknown target
	w = doJSON(t, r, "PUT", "/following/fole-nobody", auth, nil)
	requireStatus(t, w, http.StatusNotFound)

	// unfollow someone not followed
	w = doJSON(t, r, "DELETE", "/following/fole-bob", auth, nil)
	env = requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, 40041, env.Code)
}
