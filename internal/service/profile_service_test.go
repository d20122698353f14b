package service

import (
	"context"
	"testing"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProfileService(profileRepo *profileRepoStub, followRepo *followRepoStub, postRepo *postRepoStub) *ProfileService {
	if profileRepo == nil {
		profileRepo = noopProfileRepo()
	}
	if followRepo == nil {
		followRepo = noopFollowRepo()
	}
	if postRepo == nil {
		postRepo = noopPostRepo()
	}
	return NewProfileService(profileRepo, followRepo, postRepo, noopUserRepo())
}

func TestProfileService_CreateProfile_Conflict(t *testing.T) {
	t.Parallel()

	profileRepo := noopProfileRepo()
	profileRepo.createFn = func(_ context.Context, _ *models.UserProfile) error {
		return models.NewConflictError("User already has a profile")
	}
	svc := newTestProfileService(profileRepo, nil, nil)

	_, err := svc.CreateProfile(context.Background(), CreateProfileInput{UserID: 1, Bio: "again"})
	assertConflictError(t, err)
}

func TestProfileService_GetProfileDetail(t *testing.T) {
	t.Parallel()

	profileRepo := noopProfileRepo()
	profileRepo.getByIDFn = func(_ context.Context, id uint) (*models.UserProfile, error) {
		return &models.UserProfile{ID: id, CreatedByID: 4, Bio: "hello"}, nil
	}
	followRepo := noopFollowRepo()
	followRepo.followerIDsFn = func(_ context.Context, userID uint) ([]uint, error) {
		assert.EqualValues(t, 4, userID, "edges pivot on the owning user")
		return []uint{2, 3}, nil
	}
	followRepo.followingIDsFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{9}, nil
	}
	postRepo := noopPostRepo()
	postRepo.listTitlesByProfileFn = func(_ context.Context, profileID uint) ([]string, error) {
		assert.EqualValues(t, 5, profileID)
		return []string{"first", "second"}, nil
	}

	svc := newTestProfileService(profileRepo, followRepo, postRepo)
	detail, err := svc.GetProfileDetail(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, detail.FollowerIDs)
	assert.Equal(t, []uint{9}, detail.FollowingIDs)
	assert.Equal(t, []string{"first", "second"}, detail.PostTitles)
	assert.Equal(t, "hello", detail.Bio)
}

func TestProfileService_UpdateProfile_OwnerOnly(t *testing.T) {
	t.Parallel()

	profileRepo := noopProfileRepo()
	profileRepo.getByIDFn = func(_ context.Context, id uint) (*models.UserProfile, error) {
		return &models.UserProfile{ID: id, CreatedByID: 3, Bio: "old"}, nil
	}
	svc := newTestProfileService(profileRepo, nil, nil)
	ctx := context.Background()

	t.Run("non-owner is forbidden", func(t *testing.T) {
		t.Parallel()
		bio := "new"
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 4, ProfileID: 1, Bio: &bio})
		assertForbiddenError(t, err)
	})

	t.Run("owner can update", func(t *testing.T) {
		t.Parallel()
		bio := "new"
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 3, ProfileID: 1, Bio: &bio})
		assert.NoError(t, err)
	})
}

func TestProfileService_DeleteProfile_OwnerOnly(t *testing.T) {
	t.Parallel()

	profileRepo := noopProfileRepo()
	profileRepo.getByIDFn = func(_ context.Context, id uint) (*models.UserProfile, error) {
		return &models.UserProfile{ID: id, CreatedByID: 3}, nil
	}
	svc := newTestProfileService(profileRepo, nil, nil)

	assertForbiddenError(t, svc.DeleteProfile(context.Background(), 4, 1))
	assert.NoError(t, svc.DeleteProfile(context.Background(), 3, 1))
}

func TestProfileService_SetProfileImage_OwnerOnly(t *testing.T) {
	t.Parallel()

	var saved *models.UserProfile
	profileRepo := noopProfileRepo()
	profileRepo.getByIDFn = func(_ context.Context, id uint) (*models.UserProfile, error) {
		if saved != nil {
			return saved, nil
		}
		return &models.UserProfile{ID: id, CreatedByID: 3, Image: "uploads/userprofiles/old.jpg"}, nil
	}
	profileRepo.updateFn = func(_ context.Context, p *models.UserProfile) error {
		saved = p
		return nil
	}
	svc := newTestProfileService(profileRepo, nil, nil)

	_, err := svc.SetProfileImage(context.Background(), 4, 1, "uploads/userprofiles/new.jpg")
	assertForbiddenError(t, err)

	profile, err := svc.SetProfileImage(context.Background(), 3, 1, "uploads/userprofiles/new.jpg")
	require.NoError(t, err)
	assert.Equal(t, "uploads/userprofiles/new.jpg", profile.Image, "upload replaces the existing image")
}
