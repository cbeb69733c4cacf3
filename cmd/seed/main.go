package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	defaultDSN := os.Getenv("DATABASE_URL")
	dsn := flag.String("dsn", defaultDSN, "database url")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("DSN required via flag -dsn or DATABASE_URL env")
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Cannot ping DB:", err)
	}

	seedAdmin(db)
	seedTeachers(db)
}

func seedAdmin(db *sql.DB) {
	email := "admin@sessionbook.local"
	password := "password"

	if envEmail := os.Getenv("DB_ADMIN_EMAIL"); envEmail != "" {
		email = envEmail
	}

	if envPass := os.Getenv("DB_ADMIN_PASSWORD"); envPass != "" {
		password = envPass
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	query := `
		INSERT INTO users (email, last_name, first_name, admin, password)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (email) DO UPDATE SET password = excluded.password;
	`

	_, err := db.Exec(query, email, "Admin", "Admin", string(hashed))
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	fmt.Printf("✅ Admin Seeded!\n   User: %s\n   Pass: %s\n", email, password)
}

func seedTeachers(db *sql.DB) {
	teachers := [][2]string{
		{"Delahaye", "Margot"},
		{"Thiercelin", "Hélène"},
	}

	for _, t := range teachers {
		query := `
			INSERT INTO teachers (last_name, first_name)
			SELECT $1, $2
			WHERE NOT EXISTS (
				SELECT 1 FROM teachers WHERE last_name = $1 AND first_name = $2
			);
		`

		if _, err := db.Exec(query, t[0], t[1]); err != nil {
			log.Fatalf("Failed to seed teacher %s: %v", t[0], err)
		}
	}

	fmt.Println("✅ Teachers Seeded!")
}
