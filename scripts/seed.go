//go:build ignore

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/himanshinagori/buddyboard/internal/database"
	"github.com/himanshinagori/buddyboard/internal/database/models"
	"github.com/himanshinagori/buddyboard/pkg/config"
	"github.com/himanshinagori/buddyboard/pkg/util"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Seeds the admin account. Signup only ever creates regular users, so the
// first admin has to come from here.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" {
		email = "admin@buddyboard.app"
	}
	if password == "" {
		password = "admin123!"
	}
	if name == "" {
		name = "Admin"
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err = db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		fmt.Printf("Admin user already exists: %s\n", email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up admin user: %v", err)
	}

	admin := models.User{
		Name:            name,
		Email:           email,
		Role:            models.RoleAdmin,
		IsEmailVerified: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	fmt.Printf("Admin user created successfully!\n")
	fmt.Printf("Email: %s\n", admin.Email)
}
