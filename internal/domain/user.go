package domain

import "time"

// User holds user data.
type User struct {
	ID             int64     `json:"user_id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"hashed_password"`
	RegisteredAt   time.Time `json:"registered_at"`
}

// UserProfile is User data excluding credential material.
type UserProfile struct {
	ID           int64     `json:"user_id"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Profile strips credential material from a user.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:           u.ID,
		Username:     u.Username,
		RegisteredAt: u.RegisteredAt,
	}
}
