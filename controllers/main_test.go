package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ricebook-backend/config"
	"ricebook-backend/models"
	"ricebook-backend/routes"
	"ricebook-backend/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	// Disable the registration throttles so test runs don't depend on a
	// Redis instance or on wall-clock cooldowns.
	os.Setenv("REGISTER_ATTEMPT_COOLDOWN_SEC", "0")
	os.Setenv("REGISTER_MAX_PER_IP_PER_DAY", "0")

	if err := utils.InitLogger(config.Load()); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Article{},
		&models.Counter{},
		&models.PageView{},
		&models.UploadedFile{},
	))
	return db
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return routes.SetupRouter(db), db
}

// createUser inserts an account plus its profile directly, bypassing the
// registration endpoint.
func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	user := models.User{Username: username, Email: username + "@example.com", PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)
	profile := models.Profile{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		DOB:      "1998-07-16",
		Phone:    "123-456-7890",
		Zipcode:  "77005",
		Headline: models.DefaultHeadline,
	}
	require.NoError(t, db.Create(&profile).Error)
	return user
}

func mustUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("username = ?", username).First(&user).Error)
	return user
}

func bearerFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON issues a request with an optional JSON body and Authorization header.
func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) envelope {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	return decodeEnvelope(t, w)
}
