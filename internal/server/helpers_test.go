package server

import (
	"fmt"
	"net/http"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProfiles(t *testing.T, s *Server, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		user := models.User{
			Email:    fmt.Sprintf("page%02d@example.com", i),
			Password: "hashed",
		}
		require.NoError(t, s.db.Create(&user).Error)
		require.NoError(t, s.db.Create(&models.UserProfile{
			CreatedByID: user.ID,
			Bio:         fmt.Sprintf("bio %02d", i),
		}).Error)
	}
}

func TestListPagination(t *testing.T) {
	t.Parallel()
	s, app := newTestServer(t)
	seedProfiles(t, s, 10)

	t.Run("first page", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/user/user_profiles/", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)

		assert.EqualValues(t, 10, body["count"])
		assert.Len(t, body["results"], 3, "default page size")
		assert.Nil(t, body["previous"])
		next, _ := body["next"].(string)
		assert.Contains(t, next, "page=2")
	})

	t.Run("middle page links both ways", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/user/user_profiles/?page=3", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)

		next, _ := body["next"].(string)
		previous, _ := body["previous"].(string)
		assert.Contains(t, next, "page=4")
		assert.Contains(t, previous, "page=2")
	})

	t.Run("last page is short and has no next", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/user/user_profiles/?page=4", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)

		assert.Len(t, body["results"], 1)
		assert.Nil(t, body["next"])
	})

	t.Run("page past the end is not found", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/user/user_profiles/?page=5", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("page size is honored and kept in links", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/user/user_profiles/?page=1&page_size=4", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)

		assert.Len(t, body["results"], 4)
		next, _ := body["next"].(string)
		assert.Contains(t, next, "page=2")
		assert.Contains(t, next, "page_size=4")
	})

	t.Run("oversized page size is clamped", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/user/user_profiles/?page_size=500", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)

		assert.Len(t, body["results"], 10, "all rows fit under the cap")
		assert.Nil(t, body["next"])
	})

	t.Run("filters survive in page links", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/user/user_profiles/?email=page&page=2", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)

		next, _ := body["next"].(string)
		assert.Contains(t, next, "email=page")
		assert.Contains(t, next, "page=3")
	})
}

func TestParseIDRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/social/posts/banana", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/social/posts/-3", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
