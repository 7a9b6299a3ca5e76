package model

import "time"

// JWTTokenBlacklist stores revoked token JTIs until they would have expired
// anyway; a cron job purges rows past ExpiresAt.
type JWTTokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Token     string    `gorm:"type:varchar(100);not null;index" json:"token"` // JTI, not the raw token
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Reason    string    `gorm:"type:varchar(100)" json:"reason"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName specifies the table name for JWTTokenBlacklist
func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}
