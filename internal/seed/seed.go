// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers int
	NumPosts int
	Clean    bool
}

// Seeder populates the database with a believable social graph.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rand    *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{
		db:      db,
		factory: NewFactory(db),
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes seeded data in dependency order so foreign keys never
// trip. Raw deletes keep it portable between postgres and sqlite.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{
		"blacklisted_tokens",
		"outstanding_tokens",
		"likes",
		"comments",
		"post_hashtags",
		"posts",
		"hash_tags",
		"user_profile_follows",
		"user_profiles",
		"users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds users with profiles, a follow mesh, hashtags, posts,
// comments and likes.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("%d users created", len(users))

	if err := s.seedFollowMesh(users); err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}

	tags, err := s.factory.CreateHashTags(12)
	if err != nil {
		return fmt.Errorf("seed hashtags: %w", err)
	}

	posts, err := s.seedPosts(users, tags, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	if err := s.seedEngagement(users, posts); err != nil {
		return fmt.Errorf("seed engagement: %w", err)
	}

	log.Println("Seeding complete. All test users share the password: password123")
	return nil
}

func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		if _, err := s.factory.CreateProfile(user); err != nil {
			return nil, err
		}
		users = append(users, *user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

// seedFollowMesh gives every user a handful of follows. Self-follows are
// skipped and duplicates are impossible because targets are drawn from
// the remaining pool.
func (s *Seeder) seedFollowMesh(users []models.User) error {
	for i, follower := range users {
		perm := s.rand.Perm(len(users))
		wanted := s.rand.Intn(5)
		for _, j := range perm {
			if wanted == 0 {
				break
			}
			if j == i {
				continue
			}
			err := s.db.Create(&models.UserProfileFollow{
				CreatedByID: follower.ID,
				FollowingID: users[j].ID,
			}).Error
			if err != nil {
				return err
			}
			wanted--
		}
	}
	return nil
}

func (s *Seeder) seedPosts(users []models.User, tags []models.HashTag, count int) ([]models.Post, error) {
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.rand.Intn(len(users))]

		var postTags []models.HashTag
		for _, tag := range tags {
			if s.rand.Float32() < 0.15 {
				postTags = append(postTags, tag)
			}
		}

		post, err := s.factory.CreatePost(&author, postTags)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d posts...", i)
		}
	}
	return posts, nil
}

// seedEngagement sprinkles comments and likes over the posts. The
// like table's unique (post, user) pair is honored by sampling users
// without replacement per post.
func (s *Seeder) seedEngagement(users []models.User, posts []models.Post) error {
	for _, post := range posts {
		for i := 0; i < s.rand.Intn(4); i++ {
			commenter := users[s.rand.Intn(len(users))]
			if _, err := s.factory.CreateComment(&commenter, &post); err != nil {
				return err
			}
		}

		perm := s.rand.Perm(len(users))
		likers := s.rand.Intn(len(users) + 1)
		for _, j := range perm[:likers] {
			if s.rand.Float32() > 0.3 {
				continue
			}
			err := s.db.Create(&models.Like{
				PostID:      post.ID,
				CreatedByID: users[j].ID,
			}).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}
