package models

import (
	"time"

	"gorm.io/gorm"
)

// Gender / seeking enum values accepted on profiles.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	SeekingEveryone = "everyone"
)

// User represents an account profile. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	FullName     string         `gorm:"size:128" json:"full_name"`
	Gender       string         `gorm:"size:16" json:"gender"`
	Seeking      string         `gorm:"size:16;default:'everyone'" json:"seeking"`
	Bio          string         `gorm:"size:512" json:"bio"`
	Age          int            `json:"age"`
	StarSign     string         `gorm:"size:32" json:"star_sign"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	PhotoURL     string         `gorm:"size:512" json:"photo_url"`
	PrivateMode  bool           `gorm:"default:false" json:"private_mode"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidGender reports whether s is an accepted gender value.
func ValidGender(s string) bool {
	return s == GenderMale || s == GenderFemale || s == GenderOther
}

// ValidSeeking reports whether s is an accepted seeking preference.
func ValidSeeking(s string) bool {
	return ValidGender(s) || s == SeekingEveryone
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
