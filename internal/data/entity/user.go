package entity

import "time"

type UserStatus string

const (
	StatusOnline  UserStatus = "online"
	StatusOffline UserStatus = "offline"
	StatusDND     UserStatus = "dnd"
)

type ThemePreference string

const (
	ThemeLight ThemePreference = "light"
	ThemeDark  ThemePreference = "dark"
)

type User struct {
	Base
	Username     string          `db:"username"`
	Email        *string         `db:"email"`
	PasswordHash string          `db:"password"`
	Phone        *string         `db:"phone"`
	FullName     string          `db:"full_name"`
	Avatar       *string         `db:"avatar"`
	Bio          string          `db:"bio"`
	Status       UserStatus      `db:"status"`
	Location     string          `db:"location"`
	Theme        ThemePreference `db:"theme_preference"`
	IsPremium    bool            `db:"is_premium"`
	IsVerified   bool            `db:"is_verified"`
	LastLogin    *time.Time      `db:"last_login"`
}
