package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_HasRole(t *testing.T) {
	user := &User{Roles: []Role{RoleFan, RoleArtist}}

	assert.True(t, user.HasRole(RoleArtist))
	assert.False(t, user.HasRole(RoleMerchant))
	assert.False(t, (&User{}).HasRole(RoleFan))
}

func TestLiveSession_IsFull(t *testing.T) {
	one := 1

	assert.False(t, (&LiveSession{AttendeeCount: 100}).IsFull())
	assert.False(t, (&LiveSession{MaxAttendees: &one}).IsFull())
	assert.True(t, (&LiveSession{MaxAttendees: &one, AttendeeCount: 1}).IsFull())
}

func TestProduct_OutOfStock(t *testing.T) {
	zero, two := 0, 2

	assert.False(t, (&Product{}).OutOfStock())
	assert.False(t, (&Product{Stock: &two}).OutOfStock())
	assert.True(t, (&Product{Stock: &zero}).OutOfStock())
}

func TestStatusValidation(t *testing.T) {
	assert.True(t, SessionStatusLive.Valid())
	assert.False(t, SessionStatus("CANCELLED").Valid())
	assert.True(t, ProductTypeDigital.Valid())
	assert.False(t, ProductType("SERVICE").Valid())
}
