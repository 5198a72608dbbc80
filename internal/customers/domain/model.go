package domain

import "time"

// Person is the public profile. It never carries the password hash.
type Person struct {
	ID        int64     `json:"CODPES"`
	Name      string    `json:"NOME"`
	Email     string    `json:"EMAIL"`
	Phone     string    `json:"TELEFONE"`
	Admin     bool      `json:"ADMIN"`
	CreatedAt time.Time `json:"CRIADO_EM"`
}

type PersonUpdate struct {
	Name  string `json:"NOME" binding:"required,min=2,max=120"`
	Phone string `json:"TELEFONE" binding:"omitempty,max=20"`
}

type Address struct {
	ID           int64     `json:"CODEND"`
	PersonID     int64     `json:"CODPES"`
	CEP          string    `json:"CEP"`
	Street       string    `json:"LOGRADOURO"`
	Number       string    `json:"NUMERO"`
	Complement   string    `json:"COMPLEMENTO"`
	Neighborhood string    `json:"BAIRRO"`
	City         string    `json:"CIDADE"`
	State        string    `json:"UF"`
	CreatedAt    time.Time `json:"CRIADO_EM"`
}

type AddressInput struct {
	CEP          string `json:"CEP" binding:"required"`
	Street       string `json:"LOGRADOURO" binding:"required,max=200"`
	Number       string `json:"NUMERO" binding:"required,max=20"`
	Complement   string `json:"COMPLEMENTO" binding:"max=100"`
	Neighborhood string `json:"BAIRRO" binding:"max=100"`
	City         string `json:"CIDADE" binding:"required,max=100"`
	State        string `json:"UF" binding:"required,len=2,alpha"`
}
