package domain

import "time"

// Account is the credential record of a person (table pessoa).
type Account struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	GoogleSub    string
	Admin        bool
	CreatedAt    time.Time
}

// User is what the API returns about the signed-in person.
type User struct {
	ID    int64  `json:"CODPES"`
	Name  string `json:"NOME"`
	Email string `json:"EMAIL"`
	Admin bool   `json:"ADMIN"`
}

func (a *Account) User() User {
	return User{ID: a.ID, Name: a.Name, Email: a.Email, Admin: a.Admin}
}

// Session is returned by every successful sign-in.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"EMAIL" binding:"required,email"`
	Password string `json:"SENHA" binding:"required"`
}

type RegisterRequest struct {
	Name         string `json:"NOME" binding:"required,min=2,max=120"`
	Email        string `json:"EMAIL" binding:"required,email"`
	Password     string `json:"SENHA" binding:"required,min=8,max=72"`
	Confirmation string `json:"CONFIRMACAO" binding:"required,eqfield=Password"`
	Phone        string `json:"TELEFONE" binding:"omitempty,max=20"`
}

type ChangePasswordRequest struct {
	Current      string `json:"SENHA_ATUAL" binding:"omitempty"`
	New          string `json:"NOVA_SENHA" binding:"required,min=8,max=72"`
	Confirmation string `json:"CONFIRMACAO" binding:"required,eqfield=New"`
}

// GoogleLoginRequest carries either an ID token or an authorization code.
type GoogleLoginRequest struct {
	Credential string `json:"CREDENTIAL"`
	Code       string `json:"CODE"`
}
