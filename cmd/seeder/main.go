package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mkrogh/courtside/internal/court"
	"github.com/mkrogh/courtside/internal/database"
	"github.com/mkrogh/courtside/internal/profile"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	cfg := map[string]string{
		"DB_NAME":        "courtside.db",
		"MIGRATIONS_DIR": "./migrations",
	}
	for key := range cfg {
		if value, ok := os.LookupEnv(key); ok {
			cfg[key] = value
		}
	}
	return cfg
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	courts := court.New(db)
	seedCourts := []struct{ name, address string }{
		{"Center Court", "1 Park Lane"},
		{"Riverside Courts", "22 Embankment Rd"},
		{"North End Club", "9 Hill St"},
	}
	for _, c := range seedCourts {
		created, err := courts.Add(c.name, c.address)
		if err != nil {
			log.Fatalf("Failed to insert court %s: %s", c.name, err)
		}
		log.Info("Seeded court", "id", created.ID, "name", created.Name)
	}

	profiles := profile.New(db)
	rating := func(v float64) *float64 { return &v }
	seedPlayers := []profile.Player{
		{ID: "player-1", Name: "Seeder Player A", Rating: rating(4.0), Contact: "U000001"},
		{ID: "player-2", Name: "Seeder Player B", Rating: rating(3.5), Contact: "U000002"},
		{ID: "player-3", Name: "Seeder Player C", Rating: rating(5.0), Contact: "U000003"},
		{ID: "player-4", Name: "Seeder Player D", Rating: rating(4.5), Contact: "U000004"},
	}
	for _, p := range seedPlayers {
		if err := profiles.Upsert(p); err != nil {
			log.Fatalf("Failed to insert player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured dummy players exist.", "count", len(seedPlayers))

	log.Info("Seeding complete.")
}
