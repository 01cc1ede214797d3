// Command seed populates the development database with demo data.
package main

import (
	"flag"
	"log"

	"amicus/internal/config"
	"amicus/internal/database"
	"amicus/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	perUser := flag.Int("requests", 2, "Friend requests to attempt per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Seed(db, seed.Options{
		NumUsers:        *numUsers,
		RequestsPerUser: *perUser,
		ShouldClean:     *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
