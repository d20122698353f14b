package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/repository"
	"ripple/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a fully wired server against an in-memory sqlite
// database and returns it with a routed Fiber app. The prometheus
// middleware is left nil so repeated setups don't fight over collector
// registration.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:       "handler-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		MediaRoot:       t.TempDir(),
	}

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		profileRepo: repository.NewProfileRepository(db),
		followRepo:  repository.NewFollowRepository(db),
		postRepo:    repository.NewPostRepository(db),
		hashTagRepo: repository.NewHashTagRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		likeRepo:    repository.NewLikeRepository(db),
		tokenRepo:   repository.NewTokenRepository(db),
	}
	s.userService = service.NewUserService(s.userRepo, s.profileRepo)
	s.tokenService = service.NewTokenService(s.tokenRepo, s.userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	s.profileService = service.NewProfileService(s.profileRepo, s.followRepo, s.postRepo, s.userRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)
	s.postService = service.NewPostService(s.postRepo, s.profileRepo, s.hashTagRepo)
	s.hashTagService = service.NewHashTagService(s.hashTagRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.likeService = service.NewLikeService(s.likeRepo, s.postRepo)
	s.mediaService = service.NewMediaService(cfg.MediaRoot, service.DefaultMaxUploadSizeMB)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	out := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// signupAndLogin registers an account over HTTP and returns its id with a
// valid token pair.
func signupAndLogin(t *testing.T, app *fiber.App, email string) (userID uint, access, refresh string) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/user/register", "", map[string]string{
		"email":    email,
		"password": "open sesame",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	userID = uint(created["id"].(float64))

	resp = doJSON(t, app, http.MethodPost, "/api/user/token", "", map[string]string{
		"email":    email,
		"password": "open sesame",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pair := decodeBody(t, resp)
	access, _ = pair["access"].(string)
	refresh, _ = pair["refresh"].(string)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return userID, access, refresh
}

// createProfileFor gives the user a profile over HTTP.
func createProfileFor(t *testing.T, app *fiber.App, access, bio string) uint {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/user/user_profiles/", access, map[string]string{"bio": bio})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	profile := decodeBody(t, resp)
	return uint(profile["id"].(float64))
}
