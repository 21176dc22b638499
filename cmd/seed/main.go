// Command seed fills the configured database with demo users, profiles,
// and posts for local development.
package main

import (
	"flag"
	"log"

	"devconnector/internal/config"
	"devconnector/internal/database"
	"devconnector/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 25, "number of users to create")
	numPosts := flag.Int("posts", 100, "number of posts to create")
	clean := flag.Bool("clean", false, "truncate existing data first")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "store plaintext passwords for faster seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *clean,
		SkipBcrypt:  *skipBcrypt,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
