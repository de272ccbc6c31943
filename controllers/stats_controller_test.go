package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsOverview(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "stat-alice")
	createUser(t, db, "stat-bob")
	auth := bearerFor(t, alice)

	created := postArticle(t, r, auth, "stats fodder")
	id := int64(created["id"].(float64))
	doJSON(t, r, "PUT", fmt.Sprintf("/articles/%d", id), auth, map[string]interface{}{"text": "a comment", "commentId": -1})

	w := doJSON(t, r, "GET", "/stats", auth, nil)
	env := requireStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(2), env.Data["users"])
	assert.Equal(t, float64(1), env.Data["articles"])
	assert.Equal(t, float64(1), env.Data["comments"])
}
