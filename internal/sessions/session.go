package sessions

import "time"

// Session represents a persistent refresh session issued alongside a session
// token during the custom-token exchange.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	UID          string    `bson:"uid" json:"uid"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
