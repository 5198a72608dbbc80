package http

import (
	"context"

	"github.com/lojaweb/storefront-api/internal/customers/domain"
	"github.com/lojaweb/storefront-api/internal/postal"
)

type CustomerService interface {
	Person(ctx context.Context, id int64) (*domain.Person, error)
	UpdatePerson(ctx context.Context, id int64, in domain.PersonUpdate) (*domain.Person, error)
	Addresses(ctx context.Context, owner int64) ([]domain.Address, error)
	AddAddress(ctx context.Context, owner int64, in domain.AddressInput) (*domain.Address, error)
	UpdateAddress(ctx context.Context, owner, id int64, in domain.AddressInput) (*domain.Address, error)
	RemoveAddress(ctx context.Context, owner, id int64) error
	LookupCEP(ctx context.Context, cep string) (*postal.Address, error)
}

type Handler struct {
	customers CustomerService
}

func New(customers CustomerService) *Handler {
	return &Handler{customers: customers}
}
