package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleMaster     = 1
	RoleInfluencer = 2
)

type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Lastname     string     `json:"lastname"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Active       bool       `json:"active"`
	RoleID       int        `json:"role_id"`
	InfluencerID *int       `json:"influencer_id"`
	Deleted      bool       `json:"-"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type UpdateUserRequest struct {
	ID           int     `json:"id"`
	Name         *string `json:"name"`
	Lastname     *string `json:"lastname"`
	Email        *string `json:"email"`
	Active       *bool   `json:"active"`
	RoleID       *int    `json:"role_id"`
	InfluencerID *int    `json:"influencer_id"`
	Deleted      *bool   `json:"deleted"`
}

type Claims struct {
	UserID           int    `json:"user_id"`
	UserName         string `json:"user_name"`
	UserLastname     string `json:"user_lastname"`
	UserEmail        string `json:"user_email"`
	UserActive       bool   `json:"user_active"`
	UserRoleID       int    `json:"user_role_id"`
	UserInfluencerID *int   `json:"user_influencer_id"`
	jwt.RegisteredClaims
}
