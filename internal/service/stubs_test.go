package service

import (
	"context"
	"testing"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"

	"github.com/stretchr/testify/require"
)

// Function-field stubs for the repository interfaces. Each noop
// constructor returns a stub whose every method succeeds with zero
// values; tests override just the fields they care about.

type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByIDWithProfileFn func(context.Context, uint) (*models.User, error)
	getByEmailFn         func(context.Context, string) (*models.User, error)
	createFn             func(context.Context, *models.User) error
	updateFn             func(context.Context, *models.User) error
	deleteFn             func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithProfile(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDWithProfileFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:            func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByIDWithProfileFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:         func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:             func(_ context.Context, _ *models.User) error { return nil },
		updateFn:             func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
	}
}

type profileRepoStub struct {
	createFn     func(context.Context, *models.UserProfile) error
	getByIDFn    func(context.Context, uint) (*models.UserProfile, error)
	getByOwnerFn func(context.Context, uint) (*models.UserProfile, error)
	listFn       func(context.Context, repository.ProfileFilter, int, int) ([]models.UserProfile, int64, error)
	updateFn     func(context.Context, *models.UserProfile) error
	deleteFn     func(context.Context, uint) error
}

func (s *profileRepoStub) Create(ctx context.Context, p *models.UserProfile) error {
	return s.createFn(ctx, p)
}
func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.UserProfile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByOwner(ctx context.Context, userID uint) (*models.UserProfile, error) {
	return s.getByOwnerFn(ctx, userID)
}
func (s *profileRepoStub) List(ctx context.Context, f repository.ProfileFilter, limit, offset int) ([]models.UserProfile, int64, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *profileRepoStub) Update(ctx context.Context, p *models.UserProfile) error {
	return s.updateFn(ctx, p)
}
func (s *profileRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		createFn:  func(_ context.Context, _ *models.UserProfile) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.UserProfile, error) { return &models.UserProfile{ID: id}, nil },
		getByOwnerFn: func(_ context.Context, userID uint) (*models.UserProfile, error) {
			return &models.UserProfile{ID: 1, CreatedByID: userID}, nil
		},
		listFn: func(_ context.Context, _ repository.ProfileFilter, _, _ int) ([]models.UserProfile, int64, error) {
			return nil, 0, nil
		},
		updateFn: func(_ context.Context, _ *models.UserProfile) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

type followRepoStub struct {
	createFn       func(context.Context, *models.UserProfileFollow) error
	getByIDFn      func(context.Context, uint) (*models.UserProfileFollow, error)
	listFn         func(context.Context, repository.FollowFilter, int, int) ([]models.UserProfileFollow, int64, error)
	deleteFn       func(context.Context, uint) error
	followerIDsFn  func(context.Context, uint) ([]uint, error)
	followingIDsFn func(context.Context, uint) ([]uint, error)
}

func (s *followRepoStub) Create(ctx context.Context, f *models.UserProfileFollow) error {
	return s.createFn(ctx, f)
}
func (s *followRepoStub) GetByID(ctx context.Context, id uint) (*models.UserProfileFollow, error) {
	return s.getByIDFn(ctx, id)
}
func (s *followRepoStub) List(ctx context.Context, f repository.FollowFilter, limit, offset int) ([]models.UserProfileFollow, int64, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *followRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *followRepoStub) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followerIDsFn(ctx, userID)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:  func(_ context.Context, _ *models.UserProfileFollow) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.UserProfileFollow, error) { return &models.UserProfileFollow{ID: id}, nil },
		listFn: func(_ context.Context, _ repository.FollowFilter, _, _ int) ([]models.UserProfileFollow, int64, error) {
			return nil, 0, nil
		},
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		followerIDsFn:  func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		followingIDsFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
	}
}

type postRepoStub struct {
	createFn              func(context.Context, *models.Post) error
	getByIDFn             func(context.Context, uint) (*models.Post, error)
	listFn                func(context.Context, repository.PostFilter, int, int) ([]models.Post, int64, error)
	listTitlesByProfileFn func(context.Context, uint) ([]string, error)
	updateFn              func(context.Context, *models.Post) error
	replaceHashtagsFn     func(context.Context, *models.Post, []models.HashTag) error
	deleteFn              func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error {
	return s.createFn(ctx, p)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, f repository.PostFilter, limit, offset int) ([]models.Post, int64, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *postRepoStub) ListTitlesByProfile(ctx context.Context, profileID uint) ([]string, error) {
	return s.listTitlesByProfileFn(ctx, profileID)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error {
	return s.updateFn(ctx, p)
}
func (s *postRepoStub) ReplaceHashtags(ctx context.Context, p *models.Post, tags []models.HashTag) error {
	return s.replaceHashtagsFn(ctx, p, tags)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:              func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:             func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id, IsVisible: true}, nil },
		listFn:                func(_ context.Context, _ repository.PostFilter, _, _ int) ([]models.Post, int64, error) { return nil, 0, nil },
		listTitlesByProfileFn: func(_ context.Context, _ uint) ([]string, error) { return nil, nil },
		updateFn:              func(_ context.Context, _ *models.Post) error { return nil },
		replaceHashtagsFn:     func(_ context.Context, _ *models.Post, _ []models.HashTag) error { return nil },
		deleteFn:              func(_ context.Context, _ uint) error { return nil },
	}
}

type hashTagRepoStub struct {
	createFn   func(context.Context, *models.HashTag) error
	getByIDFn  func(context.Context, uint) (*models.HashTag, error)
	getByIDsFn func(context.Context, []uint) ([]models.HashTag, error)
	listFn     func(context.Context, string, int, int) ([]models.HashTag, int64, error)
	updateFn   func(context.Context, *models.HashTag) error
	deleteFn   func(context.Context, uint) error
}

func (s *hashTagRepoStub) Create(ctx context.Context, t *models.HashTag) error {
	return s.createFn(ctx, t)
}
func (s *hashTagRepoStub) GetByID(ctx context.Context, id uint) (*models.HashTag, error) {
	return s.getByIDFn(ctx, id)
}
func (s *hashTagRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.HashTag, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *hashTagRepoStub) List(ctx context.Context, name string, limit, offset int) ([]models.HashTag, int64, error) {
	return s.listFn(ctx, name, limit, offset)
}
func (s *hashTagRepoStub) Update(ctx context.Context, t *models.HashTag) error {
	return s.updateFn(ctx, t)
}
func (s *hashTagRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopHashTagRepo() *hashTagRepoStub {
	return &hashTagRepoStub{
		createFn:   func(_ context.Context, _ *models.HashTag) error { return nil },
		getByIDFn:  func(_ context.Context, id uint) (*models.HashTag, error) { return &models.HashTag{ID: id}, nil },
		getByIDsFn: func(_ context.Context, _ []uint) ([]models.HashTag, error) { return nil, nil },
		listFn:     func(_ context.Context, _ string, _, _ int) ([]models.HashTag, int64, error) { return nil, 0, nil },
		updateFn:   func(_ context.Context, _ *models.HashTag) error { return nil },
		deleteFn:   func(_ context.Context, _ uint) error { return nil },
	}
}

type commentRepoStub struct {
	createFn  func(context.Context, *models.Comment) error
	getByIDFn func(context.Context, uint) (*models.Comment, error)
	listFn    func(context.Context, repository.CommentFilter, int, int) ([]models.Comment, int64, error)
	updateFn  func(context.Context, *models.Comment) error
	deleteFn  func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) List(ctx context.Context, f repository.CommentFilter, limit, offset int) ([]models.Comment, int64, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, c *models.Comment) error {
	return s.updateFn(ctx, c)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listFn:    func(_ context.Context, _ repository.CommentFilter, _, _ int) ([]models.Comment, int64, error) { return nil, 0, nil },
		updateFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

type likeRepoStub struct {
	createFn  func(context.Context, *models.Like) error
	getByIDFn func(context.Context, uint) (*models.Like, error)
	listFn    func(context.Context, repository.LikeFilter, int, int) ([]models.Like, int64, error)
	deleteFn  func(context.Context, uint) error
}

func (s *likeRepoStub) Create(ctx context.Context, l *models.Like) error {
	return s.createFn(ctx, l)
}
func (s *likeRepoStub) GetByID(ctx context.Context, id uint) (*models.Like, error) {
	return s.getByIDFn(ctx, id)
}
func (s *likeRepoStub) List(ctx context.Context, f repository.LikeFilter, limit, offset int) ([]models.Like, int64, error) {
	return s.listFn(ctx, f, limit, offset)
}
func (s *likeRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		createFn:  func(_ context.Context, _ *models.Like) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Like, error) { return &models.Like{ID: id}, nil },
		listFn:    func(_ context.Context, _ repository.LikeFilter, _, _ int) ([]models.Like, int64, error) { return nil, 0, nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

type tokenRepoStub struct {
	recordOutstandingFn     func(context.Context, *models.OutstandingToken) error
	getByJTIFn              func(context.Context, string) (*models.OutstandingToken, error)
	listOutstandingByUserFn func(context.Context, uint) ([]models.OutstandingToken, error)
	blacklistFn             func(context.Context, uint) error
	isBlacklistedFn         func(context.Context, string) (bool, error)
	deleteExpiredFn         func(context.Context, time.Time) (int64, error)
}

func (s *tokenRepoStub) RecordOutstanding(ctx context.Context, t *models.OutstandingToken) error {
	return s.recordOutstandingFn(ctx, t)
}
func (s *tokenRepoStub) GetByJTI(ctx context.Context, jti string) (*models.OutstandingToken, error) {
	return s.getByJTIFn(ctx, jti)
}
func (s *tokenRepoStub) ListOutstandingByUser(ctx context.Context, userID uint) ([]models.OutstandingToken, error) {
	return s.listOutstandingByUserFn(ctx, userID)
}
func (s *tokenRepoStub) Blacklist(ctx context.Context, tokenID uint) error {
	return s.blacklistFn(ctx, tokenID)
}
func (s *tokenRepoStub) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.isBlacklistedFn(ctx, jti)
}
func (s *tokenRepoStub) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return s.deleteExpiredFn(ctx, before)
}

func noopTokenRepo() *tokenRepoStub {
	return &tokenRepoStub{
		recordOutstandingFn:     func(_ context.Context, _ *models.OutstandingToken) error { return nil },
		getByJTIFn:              func(_ context.Context, _ string) (*models.OutstandingToken, error) { return nil, nil },
		listOutstandingByUserFn: func(_ context.Context, _ uint) ([]models.OutstandingToken, error) { return nil, nil },
		blacklistFn:             func(_ context.Context, _ uint) error { return nil },
		isBlacklistedFn:         func(_ context.Context, _ string) (bool, error) { return false, nil },
		deleteExpiredFn:         func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func assertConflictError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeConflict)
}
