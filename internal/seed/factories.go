package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// hashtagPool keeps seeded tags on-theme instead of pure noise.
var hashtagPool = []string{
	"golang", "music", "travel", "food", "fitness", "photography",
	"gaming", "books", "movies", "art", "science", "coffee",
	"nature", "coding", "startups", "history",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand

	// all seed accounts share one bcrypt hash; hashing per user would
	// dominate seeding time
	passwordHash string
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{
		db:           db,
		rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}
}

// CreateUser constructs and persists a sample account. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	handle := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))
	user := &models.User{
		Email:     fmt.Sprintf("%s@example.com", handle),
		Username:  handle,
		Password:  f.passwordHash,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile gives the user their profile.
func (f *Factory) CreateProfile(user *models.User, overrides ...func(*models.UserProfile)) (*models.UserProfile, error) {
	profile := &models.UserProfile{
		Bio:         gofakeit.Sentence(10),
		Image:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", user.Username),
		CreatedByID: user.ID,
	}
	for _, override := range overrides {
		override(profile)
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateHashTags persists n tags drawn from the pool, falling back to
// generated words once the pool runs dry.
func (f *Factory) CreateHashTags(n int) ([]models.HashTag, error) {
	tags := make([]models.HashTag, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Word()
		if i < len(hashtagPool) {
			name = hashtagPool[i]
		}
		tag := models.HashTag{Name: name}
		if err := f.db.Create(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// CreatePost persists a post on the author's profile with a realistic
// created_at spread. Roughly one in ten posts is a hidden draft and one
// in ten is scheduled into the future.
func (f *Factory) CreatePost(author *models.User, tags []models.HashTag, overrides ...func(*models.Post)) (*models.Post, error) {
	var profile models.UserProfile
	if err := f.db.Where("created_by_id = ?", author.ID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("author %d has no profile: %w", author.ID, err)
	}

	post := &models.Post{
		Title:       gofakeit.Sentence(4),
		Content:     gofakeit.Paragraph(1, 3, 8, "\n"),
		ProfileID:   profile.ID,
		CreatedByID: author.ID,
		IsVisible:   true,
		CreatedAt:   time.Now().Add(-time.Duration(f.rand.Intn(90*24)) * time.Hour),
	}
	if f.rand.Float32() < 0.4 {
		post.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	}
	switch {
	case f.rand.Float32() < 0.1:
		post.IsVisible = false
	case f.rand.Float32() < 0.1:
		scheduled := time.Now().Add(time.Duration(1+f.rand.Intn(72)) * time.Hour)
		post.ScheduledTime = &scheduled
	}

	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := f.db.Model(post).Association("Hashtags").Replace(tags); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// CreateComment attaches a short comment by the given user.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:   user.ID,
		PostID:   post.ID,
		Contents: gofakeit.Sentence(8),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
