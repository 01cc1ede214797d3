// Package seed populates the database with demo data for development.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"amicus/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the shared password for every seeded account.
const DemoPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	RequestsPerUser int
	ShouldClean     bool
}

// Seed populates the database with demo users and a mesh of friend requests
// in mixed states. It is not intended for production databases.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers < 2 {
		return fmt.Errorf("at least 2 users are required, got %d", opts.NumUsers)
	}

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("seeded %d users (password %q)", len(users), DemoPassword)

	created, err := createRequests(db, users, opts.RequestsPerUser)
	if err != nil {
		return fmt.Errorf("failed to create friend requests: %w", err)
	}
	log.Printf("seeded %d friend requests", created)

	return nil
}

func clearData(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE friend_requests, users CASCADE").Error
}

func createUsers(db *gorm.DB, n int) ([]models.User, error) {
	// One hash shared by all demo accounts keeps seeding fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	taken := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		username := uniqueUsername(taken, i)
		user := models.User{Username: username, PasswordHash: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func uniqueUsername(taken map[string]bool, i int) string {
	for attempt := 0; attempt < 5; attempt++ {
		candidate := strings.ToLower(gofakeit.Username())
		if !taken[candidate] {
			taken[candidate] = true
			return candidate
		}
	}
	name := fmt.Sprintf("user%d", i+1)
	taken[name] = true
	return name
}

// createRequests links random user pairs, skipping pairs that already have a
// request in either direction. Roughly half the requests stay pending, the
// rest resolve to accepted or rejected.
func createRequests(db *gorm.DB, users []models.User, perUser int) (int, error) {
	if perUser <= 0 {
		perUser = 2
	}

	linked := make(map[[2]uint]bool)
	created := 0
	for _, from := range users {
		for i := 0; i < perUser; i++ {
			to := users[rand.Intn(len(users))]
			if to.ID == from.ID {
				continue
			}
			key := pairKey(from.ID, to.ID)
			if linked[key] {
				continue
			}
			linked[key] = true

			request := models.FriendRequest{
				FromUserID: from.ID,
				ToUserID:   to.ID,
				Status:     randomStatus(),
			}
			if err := db.Create(&request).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

func pairKey(a, b uint) [2]uint {
	if a > b {
		a, b = b, a
	}
	return [2]uint{a, b}
}

func randomStatus() models.FriendRequestStatus {
	switch rand.Intn(4) {
	case 0:
		return models.FriendRequestStatusAccepted
	case 1:
		return models.FriendRequestStatusRejected
	default:
		return models.FriendRequestStatusPending
	}
}
