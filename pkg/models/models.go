package models

import "gorm.io/gorm"

// All lists every table owned by the ledger, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserRole{},
		&Transaction{},
		&Earning{},
		&Withdrawal{},
		&LiveSession{},
		&RSVP{},
		&Product{},
	}
}

// AutoMigrate creates the ledger schema. Production uses the goose SQL
// migrations; this is for tests and local seeding.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
