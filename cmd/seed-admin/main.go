// Seeds an admissions-office admin account.
// cmd/seed-admin/main.go
package main

import (
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"admission-portal-api/config"
	"admission-portal-api/models"
	"admission-portal-api/utils"
)

func main() {
	name := flag.String("name", "Admissions Officer", "display name for the account")
	email := flag.String("email", "", "login email (required)")
	password := flag.String("password", "", "initial password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if !utils.ValidateEmail(*email) {
		log.Fatalf("invalid email: %s", *email)
	}
	if ok, msg := utils.ValidatePassword(*password); !ok {
		log.Fatal(msg)
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	addr := strings.ToLower(strings.TrimSpace(*email))

	var existing models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", addr).First(&existing).Error; err == nil {
		if existing.Role == "admin" {
			log.Printf("Admin %s already exists, nothing to do\n", addr)
			return
		}
		if err := config.DB.Model(&existing).Update("role", "admin").Error; err != nil {
			log.Fatal("Failed to promote user:", err)
		}
		log.Printf("Promoted %s to admin\n", addr)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := models.User{
		Name:     utils.SanitizeInput(*name),
		Email:    addr,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := config.DB.Create(&user).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Printf("Created admin account %s (user_id=%d)\n", addr, user.UserID)
}
