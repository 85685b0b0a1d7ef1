package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/apperrors"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/idgen"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/store"

	"gorm.io/gorm"
)

const msgEmailTaken = "Customer email already exists"

// CustomerService creates and reads customers. Customers are never mutated
// or deleted once created; sessions only reference them.
type CustomerService struct {
	stores *store.Stores
	ids    *idgen.Generator
}

func NewCustomerService(stores *store.Stores, ids *idgen.Generator) *CustomerService {
	return &CustomerService{stores: stores, ids: ids}
}

type CustomerRequest struct {
	Name  string
	Email string
}

type CustomerResponse struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// Create allocates a CB identifier and stores the customer. Email is unique
// case-insensitively.
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	switch {
	case name == "":
		return nil, apperrors.Validation("Customer name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, apperrors.Validation("A valid customer email is required")
	}

	taken, err := s.stores.Customers.EmailExists(ctx, email)
	if err != nil {
		return nil, apperrors.Storage("check customer email", err)
	}
	if taken {
		return nil, apperrors.Conflict(msgEmailTaken)
	}

	id, err := s.ids.Next(ctx, idgen.Customers)
	if err != nil {
		return nil, apperrors.Storage("allocate customer id", err)
	}

	customer := &models.Customer{
		CustomerID: id,
		Name:       name,
		Email:      email,
	}
	if err := s.stores.Customers.Create(ctx, customer); err != nil {
		return nil, apperrors.Storage("save customer", err)
	}

	return &CustomerResponse{
		CustomerID: customer.CustomerID,
		Name:       customer.Name,
		Email:      customer.Email,
	}, nil
}

// Get returns a customer by id.
func (s *CustomerService) Get(ctx context.Context, id string) (*CustomerResponse, error) {
	customer, err := s.stores.Customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(msgCustomerNotFound)
		}
		return nil, apperrors.Storage("look up customer", err)
	}
	return &CustomerResponse{
		CustomerID: customer.CustomerID,
		Name:       customer.Name,
		Email:      customer.Email,
	}, nil
}
