package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// ProfileService handles profile lifecycle, listing with derived counts
// and the detail view.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	followRepo  repository.FollowRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

// CreateProfileInput carries the fields accepted at profile creation.
type CreateProfileInput struct {
	UserID uint
	Bio    string `json:"bio"`
	Image  string `json:"image"`
}

// UpdateProfileInput carries a partial profile update. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	UserID    uint
	ProfileID uint
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
}

// ProfileDetail augments a profile with live-computed relationship data.
type ProfileDetail struct {
	models.UserProfile
	FollowerIDs  []uint   `json:"follower_ids"`
	FollowingIDs []uint   `json:"following_ids"`
	PostTitles   []string `json:"post_titles"`
}

// NewProfileService constructs a ProfileService.
func NewProfileService(
	profileRepo repository.ProfileRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		followRepo:  followRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// CreateProfile creates the caller's profile. A second profile for the
// same user fails with a conflict.
func (s *ProfileService) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.UserProfile, error) {
	profile := &models.UserProfile{
		Bio:         in.Bio,
		Image:       in.Image,
		CreatedByID: in.UserID,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByID(ctx, profile.ID)
}

// GetProfile returns one profile with its derived counts.
func (s *ProfileService) GetProfile(ctx context.Context, id uint) (*models.UserProfile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// GetProfileDetail returns the profile together with follower ids,
// following ids and the titles of the owner's posts, computed live.
func (s *ProfileService) GetProfileDetail(ctx context.Context, id uint) (*ProfileDetail, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	followerIDs, err := s.followRepo.FollowerIDs(ctx, profile.CreatedByID)
	if err != nil {
		return nil, err
	}
	followingIDs, err := s.followRepo.FollowingIDs(ctx, profile.CreatedByID)
	if err != nil {
		return nil, err
	}
	titles, err := s.postRepo.ListTitlesByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileDetail{
		UserProfile:  *profile,
		FollowerIDs:  followerIDs,
		FollowingIDs: followingIDs,
		PostTitles:   titles,
	}, nil
}

// ListProfiles returns a filtered page of profiles with derived counts.
func (s *ProfileService) ListProfiles(ctx context.Context, filter repository.ProfileFilter, limit, offset int) ([]models.UserProfile, int64, error) {
	return s.profileRepo.List(ctx, filter, limit, offset)
}

// UpdateProfile applies a partial update. Only the owner may update.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}
	if profile.CreatedByID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own profile")
	}

	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.Image != nil {
		profile.Image = *in.Image
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByID(ctx, profile.ID)
}

// DeleteProfile removes the profile and its content. Only the owner may
// delete.
func (s *ProfileService) DeleteProfile(ctx context.Context, userID, profileID uint) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.CreatedByID != userID {
		return models.NewForbiddenError("You can only delete your own profile")
	}
	return s.profileRepo.Delete(ctx, profileID)
}

// SetProfileImage stores the path of a freshly uploaded image on the
// profile. Only the owner may upload.
func (s *ProfileService) SetProfileImage(ctx context.Context, userID, profileID uint, imagePath string) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.CreatedByID != userID {
		return nil, models.NewForbiddenError("You can only upload an image to your own profile")
	}

	profile.Image = imagePath
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByID(ctx, profile.ID)
}
