package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postArticle(t *testing.T, r *gin.Engine, auth, text string) map[string]interface{} {
	t.Helper()
	w := doJSON(t, r, "POST", "/article", auth, map[string]string{"text": text})
	env := requireStatus(t, w, http.StatusOK)
	articles, ok := env.Data["articles"].([]interface{})
	require.True(t, ok, "body: %s", w.Body.String())
	require.Len(t, articles, 1)
	article, ok := articles[0].(map[string]interface{})
	require.True(t, ok)
	return article
}

func TestCreateAndFetchArticle(t *testing.T) {
	r, db := newTestServer(t)
	user := createUser(t, db, "art-alice")
	auth := bearerFor(t, user)

	created := postArticle(t, r, auth, "hello world")
	assert.Equal(t, "art-alice", created["author"])
	assert.Equal(t, "hello world", created["text"])
	id := int64(created["id"].(float64))
	assert.Equal(t, int64(1), id)

	// fetch by id
	w := doJSON(t, r, "GET", fmt.Sprintf("/articles/%d", id), auth, nil)
	env := requireStatus(t, w, http.StatusOK)
	articles := env.Data["articles"].([]interface{})
	require.Len(t, articles, 1)

	// fetch by author
	w = doJSON(t, r, "GET", "/articles/art-alice", auth, nil)
	env = requireStatus(t, w, http.StatusOK)
	articles = env.Data["articles"].([]interface{})
	require.Len(t, articles, 1)

	// unknown id yields an empty list, not an error
	w = doJSON(t, r, "GET", "/articles/999", auth, nil)
	env = requireStatus(t, w, http.StatusOK)
	assert.Empty(t, env.Data["articles"])
}

func TestCreateArticleRejectsEmptyText(t *testing.T) {
	r, db := newTestServer(t)
	user := createUser(t, db, "art-empty")
	auth := bearerFor(t, user)

	w := doJSON(t, r, "POST", "/article", auth, map[string]string{"text": "   "})
	env := requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, 40021, env.Code)
}

func TestUpdateArticleTextOwnership(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "art-owner")
	bob := createUser(t, db, "art-other")

	created := postArticle(t, r, bearerFor(t, alice), "original")
	id := int64(created["id"].(float64))

	// non-owner cannot edit the article text
	w := doJSON(t, r, "PUT", fmt.Sprintf("/articles/%d", id), bearerFor(t, bob), map[string]interface{}{"text": "rewritten"})
	env := requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, 40301, env.Code)

	// owner can
	w = doJSON(t, r, "PUT", fmt.Sprintf("/articles/%d", id), bearerFor(t, alice), map[string]interface{}{"text": "rewritten"})
	env = requireStatus(t, w, http.StatusOK)
	articles := env.Data["articles"].([]interface{})
	require.Len(t, articles, 1)
	assert.Equal(t, "rewritten", articles[0].(map[string]interface{})["text"])
}

func TestCommentFlow(t *testing.T) {
	r, db := newTestServer(t)
	alice := createUser(t, db, "cmt-alice")
	bob := createUser(t, db, "cmt-bob")

	created := postArticle(t, r, bearerFor(t, alice), "comment on this")
	id := int64(created["id"].(float64))
	path := fmt.Sprintf("/articles/%d", id)

	// bob appends a comment without owning the article
	w := doJSON(t, r, "PUT", path, bearerFor(t, bob), map[string]interface{}{"text": "first", "commentId": -1})
	env := requireStatus(t, w, http.StatusOK)
	article := env.Data["articles"].([]interface{})[0].(map[string]interface{})
	comments := article["comments"].([]interface{})
	require.Len(t, comments, 1)
	comment := comments[0].(map[string]interface{})
	assert.Equal(t, float64(1), comment["id"])
	assert.Equal(t, float64(bob.ID), comment["author"])
	assert.Equal(t, "first", comment["body"])

	// alice cannot edit bob's comment
	w = doJSON(t, r, "PUT", path, bearerFor(t, alice), map[string]interface{}{"text": "hijacked", "commentId": 1})
	requireStatus(t, w, http.StatusForbidden)

	// bob edits his own comment
	w = doJSON(t, r, "PUT", path, bearerFor(t, bob), map[string]interface{}{"text": "edited", "commentId": 1})
	env = requireStatus(t, w, http.StatusOK)
	article = env.Data["articles"].([]interface{})[0].(map[string]interface{})
	comments = article["comments"].([]interface{})
	require.Len(t, comments, 1)
	assert.Equal(t, "edited", comments[0].(map[string]interface{})["body"])

	// editing a missing comment is a 404
	w = doJSON(t, r, "PUT", path, bearerFor(t, bob), map[string]interface{}{"text": "nope", "commentId": 42})
	env = requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, 40402, env.Code)
}

func TestUpdateArticleNotFound(t *testing.T) {
	r, db := newTestServer(t)
	user := createUser(t, db, "art-nf")

	w := doJSON(t, r, "PUT", "/articles/42", bearerFor(t, user), map[string]interface{}{"text": "anything"})
	env := requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, 40401, env.Code)
}
