package model

import "time"

// Role constants
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"not null;uniqueIndex;size:100" json:"username"`
	Email        string    `gorm:"not null;uniqueIndex;size:255" json:"email"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	Role         string    `gorm:"not null;default:'USER';size:10" json:"role"`
	LocationID   *string   `gorm:"type:uuid;index" json:"location_id,omitempty"`
	Approved     bool      `gorm:"default:false" json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Identity is the authenticated caller threaded through lifecycle calls.
// It replaces ambient session state: every operation that depends on who is
// acting receives one explicitly.
type Identity struct {
	UserID     string
	Username   string
	Role       string
	LocationID *string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
