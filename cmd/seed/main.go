package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"soundstage/pkg/config"
	"soundstage/pkg/database"
	"soundstage/pkg/jwt"
	"soundstage/pkg/logger"
	"soundstage/pkg/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	email   string
	name    string
	roles   []string
	coins   int64
	referee string
}

var seedUsers = []seedUser{
	{email: "admin@soundstage.test", name: "Ops", roles: []string{"ADMIN"}},
	{email: "nandi@soundstage.test", name: "Nandi", roles: []string{"ARTIST", "FAN"}},
	{email: "sipho@soundstage.test", name: "Sipho", roles: []string{"ARTIST"}, referee: "zola@soundstage.test"},
	{email: "merch@soundstage.test", name: "Backstage Merch", roles: []string{"MERCHANT"}},
	{email: "zola@soundstage.test", name: "Zola", roles: []string{"INFLUENCER", "FAN"}, coins: 500},
	{email: "thandi@soundstage.test", name: "Thandi", roles: []string{"FAN"}, coins: 2000},
	{email: "kabelo@soundstage.test", name: "Kabelo", roles: []string{"FAN"}, coins: 50},
}

const seedPassword = "password123"

func main() {
	var printTokens bool
	flag.BoolVar(&printTokens, "tokens", false, "print a bearer token for every seeded user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	users, err := seedDatabase(db, log, time.Now().UTC())
	if err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	if printTokens {
		jwtService := jwt.NewService(cfg.JWTSecret)
		for _, u := range users {
			token, err := jwtService.GenerateToken(u.ID, primaryRole(u))
			if err != nil {
				log.Error("Failed to sign token for %s: %v", u.Email, err)
				continue
			}
			fmt.Printf("%-26s %s\n", u.Email, token)
		}
	}

	log.Info("Database seeded successfully!")
}

// seedDatabase is idempotent: existing users (by email) are reused, and
// sessions and products are only created for hosts that have none.
func seedDatabase(db *gorm.DB, log *logger.Logger, now time.Time) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	byEmail := make(map[string]*models.User, len(seedUsers))
	users := make([]*models.User, 0, len(seedUsers))

	for _, su := range seedUsers {
		user, err := upsertUser(db, su, string(hash))
		if err != nil {
			return nil, err
		}
		log.Info("Seeded user %s (%s)", user.Name, user.Email)
		byEmail[su.email] = user
		users = append(users, user)
	}

	for _, su := range seedUsers {
		if su.referee == "" {
			continue
		}
		referrer := byEmail[su.referee].ID
		if err := db.Model(&models.User{}).Where("id = ?", byEmail[su.email].ID).
			Update("referred_by_id", referrer).Error; err != nil {
			return nil, fmt.Errorf("failed to set referrer for %s: %w", su.email, err)
		}
	}

	if err := seedSessions(db, byEmail, now); err != nil {
		return nil, err
	}
	if err := seedProducts(db, byEmail["merch@soundstage.test"]); err != nil {
		return nil, err
	}

	return users, nil
}

func upsertUser(db *gorm.DB, su seedUser, passwordHash string) (*models.User, error) {
	var existing models.User
	err := db.Preload("Roles").Where("email = ?", su.email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up %s: %w", su.email, err)
	}

	user := &models.User{
		Email:        su.email,
		Name:         su.name,
		PasswordHash: passwordHash,
		CoinBalance:  su.coins,
	}
	for _, role := range su.roles {
		user.Roles = append(user.Roles, models.UserRole{Role: role, IsActive: true})
	}

	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", su.email, err)
	}
	return user, nil
}

func seedSessions(db *gorm.DB, byEmail map[string]*models.User, now time.Time) error {
	intimate := 1
	hundred := 100
	sessions := []models.LiveSession{
		{HostID: byEmail["nandi@soundstage.test"].ID, Title: "Acoustic Sunday", ScheduledAt: now.Add(72 * time.Hour), RSVPPrice: 200, MaxAttendees: &hundred, Status: "SCHEDULED"},
		{HostID: byEmail["nandi@soundstage.test"].ID, Title: "Studio Q&A", ScheduledAt: now.Add(24 * time.Hour), RSVPPrice: 0, Status: "SCHEDULED"},
		{HostID: byEmail["sipho@soundstage.test"].ID, Title: "Midnight Set", ScheduledAt: now.Add(2 * time.Hour), RSVPPrice: 500, MaxAttendees: &intimate, Status: "SCHEDULED"},
	}

	for i := range sessions {
		var count int64
		if err := db.Model(&models.LiveSession{}).
			Where("host_id = ? AND title = ?", sessions[i].HostID, sessions[i].Title).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check session %q: %w", sessions[i].Title, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&sessions[i]).Error; err != nil {
			return fmt.Errorf("failed to create session %q: %w", sessions[i].Title, err)
		}
	}
	return nil
}

func seedProducts(db *gorm.DB, merchant *models.User) error {
	var count int64
	if err := db.Model(&models.Product{}).Where("merchant_id = ?", merchant.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check products: %w", err)
	}
	if count > 0 {
		return nil
	}

	hoodies := 25
	products := []models.Product{
		{MerchantID: merchant.ID, Name: "Tour hoodie", Category: "apparel", Type: "PHYSICAL", Price: 900, Stock: &hoodies, IsActive: true},
		{MerchantID: merchant.ID, Name: "Live album (FLAC)", Category: "music", Type: "DIGITAL", Price: 300, IsActive: true},
	}
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to create products: %w", err)
	}
	return nil
}

func primaryRole(u *models.User) string {
	if len(u.Roles) == 0 {
		return "FAN"
	}
	return u.Roles[0].Role
}
