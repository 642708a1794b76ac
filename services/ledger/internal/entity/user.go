package entity

import "time"

type Role string

const (
	RoleFan        Role = "FAN"
	RoleArtist     Role = "ARTIST"
	RoleMerchant   Role = "MERCHANT"
	RoleInfluencer Role = "INFLUENCER"
	RoleAdmin      Role = "ADMIN"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	CoinBalance  int64     `json:"coin_balance"`
	ReferredByID *string   `json:"referred_by_id,omitempty"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user holds role as an active role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
