package users

import "time"

// User is an identity-provider account record. Only uid and email are ever
// exposed to clients.
type User struct {
	ID               string    `bson:"_id,omitempty" json:"-"`
	UID              string    `bson:"uid" json:"uid"`
	Email            string    `bson:"email" json:"email"`
	PasswordHash     string    `bson:"passwordHash" json:"-"`
	TokensValidAfter time.Time `bson:"tokensValidAfter,omitempty" json:"-"`
	CreatedAt        time.Time `bson:"createdAt" json:"-"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"-"`
}
