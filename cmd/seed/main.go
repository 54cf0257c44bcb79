package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/foodshare/foodshare-api/config"
	"github.com/foodshare/foodshare-api/pkg/helpers"
)

// seed inserts a demo donor, a demo receiver, and a couple of available
// listings for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	donorID := upsertUser(db, "donor@example.com", hash, "Harvest Kitchen", "donor", "Harvest Kitchen NPC", "Cape Town", "+27210000001")
	receiverID := upsertUser(db, "receiver@example.com", hash, "Hope Shelter", "receiver", "Hope Shelter", "Cape Town", "+27210000002")
	fmt.Printf("seeded users: donor=%s receiver=%s password=%s\n", donorID, receiverID, password)

	seedListing(db, donorID, "Bread", "20 loaves", "Day-old sourdough and rolls", "Cape Town")
	seedListing(db, donorID, "Vegetables", "15 kg", "Mixed surplus produce", "Stellenbosch")
	fmt.Println("seeded listings")
}

func upsertUser(db *sql.DB, email, hash, name, role, org, location, phone string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, organization, location, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, email, hash, name, role, org, location, phone).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}

func seedListing(db *sql.DB, donorID, foodType, quantity, description, location string) {
	if _, err := db.Exec(`
		INSERT INTO listings (donor_id, food_type, quantity, description, location)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM listings WHERE donor_id = $1 AND food_type = $2 AND location = $5
		)
	`, donorID, foodType, quantity, description, location); err != nil {
		log.Fatalf("failed to seed listing %s: %v", foodType, err)
	}
}
