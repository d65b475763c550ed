package user

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"userid"`
	Username     string    `json:"username"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already registered")
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=2,max=40"`
	Firstname string `json:"firstname" binding:"required,max=60"`
	Lastname  string `json:"lastname" binding:"required,max=60"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
