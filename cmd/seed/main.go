package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"memberfee_app_echo/internal/services"
)

func main() {
	name := flag.String("name", "", "Admin display name (mandatory)")
	email := flag.String("email", "", "Admin email (mandatory)")
	password := flag.String("password", "", "Admin password, at least 8 characters (mandatory)")

	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		fmt.Println("Usage: seed -name <name> -email <email> -password <password>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := services.InitDB(dsn, logger.Warn)
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	user, err := services.NewAuthService(db, nil, nil).CreateAdmin(context.Background(), *name, *email, *password)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			log.Printf("Admin %s already exists, nothing to do", *email)
			return
		}
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin created: ID=%d email=%s", user.ID, user.Email)
}
