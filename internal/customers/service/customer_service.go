package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/lojaweb/storefront-api/internal/customers/domain"
	"github.com/lojaweb/storefront-api/internal/logging"
	"github.com/lojaweb/storefront-api/internal/postal"
)

type PersonStore interface {
	Get(ctx context.Context, id int64) (*domain.Person, error)
	Update(ctx context.Context, id int64, in domain.PersonUpdate) (*domain.Person, error)
}

type AddressStore interface {
	List(ctx context.Context, owner int64) ([]domain.Address, error)
	Get(ctx context.Context, owner, id int64) (*domain.Address, error)
	Create(ctx context.Context, owner int64, in domain.AddressInput) (*domain.Address, error)
	Update(ctx context.Context, owner, id int64, in domain.AddressInput) (*domain.Address, error)
	Delete(ctx context.Context, owner, id int64) error
}

type PostalLookup interface {
	Lookup(ctx context.Context, cep string) (*postal.Address, error)
}

type CustomerService struct {
	people    PersonStore
	addresses AddressStore
	postal    PostalLookup
}

func NewCustomerService(people PersonStore, addresses AddressStore, lookup PostalLookup) *CustomerService {
	return &CustomerService{people: people, addresses: addresses, postal: lookup}
}

func (s *CustomerService) Person(ctx context.Context, id int64) (*domain.Person, error) {
	return s.people.Get(ctx, id)
}

func (s *CustomerService) UpdatePerson(ctx context.Context, id int64, in domain.PersonUpdate) (*domain.Person, error) {
	return s.people.Update(ctx, id, in)
}

func (s *CustomerService) Addresses(ctx context.Context, owner int64) ([]domain.Address, error) {
	return s.addresses.List(ctx, owner)
}

func (s *CustomerService) Address(ctx context.Context, owner, id int64) (*domain.Address, error) {
	return s.addresses.Get(ctx, owner, id)
}

func (s *CustomerService) AddAddress(ctx context.Context, owner int64, in domain.AddressInput) (*domain.Address, error) {
	if err := normalizeAddress(&in); err != nil {
		return nil, err
	}
	a, err := s.addresses.Create(ctx, owner, in)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("address added", zap.Int64("codpes", owner), zap.Int64("codend", a.ID))
	return a, nil
}

func (s *CustomerService) UpdateAddress(ctx context.Context, owner, id int64, in domain.AddressInput) (*domain.Address, error) {
	if err := normalizeAddress(&in); err != nil {
		return nil, err
	}
	return s.addresses.Update(ctx, owner, id, in)
}

func (s *CustomerService) RemoveAddress(ctx context.Context, owner, id int64) error {
	return s.addresses.Delete(ctx, owner, id)
}

// LookupCEP prefills an address form
func (s *CustomerService) LookupCEP(ctx context.Context, cep string) (*postal.Address, error) {
	return s.postal.Lookup(ctx, cep)
}

func normalizeAddress(in *domain.AddressInput) error {
	cep, err := postal.Normalize(in.CEP)
	if errors.Is(err, postal.ErrInvalidCEP) {
		return domain.ErrInvalidCEP
	}
	in.CEP = cep
	in.Street = strings.TrimSpace(in.Street)
	in.Number = strings.TrimSpace(in.Number)
	in.Complement = strings.TrimSpace(in.Complement)
	in.Neighborhood = strings.TrimSpace(in.Neighborhood)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.ToUpper(strings.TrimSpace(in.State))
	return nil
}
