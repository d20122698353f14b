package seed

import (
	"testing"

	"ripple/internal/database"
	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeederRun(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 6, NumPosts: 15}))

	var users, profiles, posts, tags int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.UserProfile{}).Count(&profiles).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.HashTag{}).Count(&tags).Error)

	assert.EqualValues(t, 6, users)
	assert.EqualValues(t, 6, profiles, "every user gets a profile")
	assert.EqualValues(t, 15, posts)
	assert.EqualValues(t, 12, tags)

	t.Run("no self-follows", func(t *testing.T) {
		var selfFollows int64
		require.NoError(t, db.Model(&models.UserProfileFollow{}).
			Where("created_by_id = following_id").Count(&selfFollows).Error)
		assert.Zero(t, selfFollows)
	})

	t.Run("likes are unique per post and user", func(t *testing.T) {
		type pair struct {
			PostID      uint
			CreatedByID uint
			N           int64
		}
		var dupes []pair
		require.NoError(t, db.Model(&models.Like{}).
			Select("post_id, created_by_id, COUNT(*) AS n").
			Group("post_id, created_by_id").
			Having("COUNT(*) > 1").
			Scan(&dupes).Error)
		assert.Empty(t, dupes)
	})

	t.Run("posts hang off their author's profile", func(t *testing.T) {
		var orphans int64
		require.NoError(t, db.Model(&models.Post{}).
			Joins("JOIN user_profiles ON user_profiles.id = posts.profile_id").
			Where("user_profiles.created_by_id != posts.created_by_id").
			Count(&orphans).Error)
		assert.Zero(t, orphans)
	})
}

func TestSeederClean(t *testing.T) {
	db := setupSeedTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 3, NumPosts: 5}))
	require.NoError(t, s.Run(Options{NumUsers: 4, NumPosts: 2, Clean: true}))

	var users, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.EqualValues(t, 4, users, "clean run starts from scratch")
	assert.EqualValues(t, 2, posts)
}
