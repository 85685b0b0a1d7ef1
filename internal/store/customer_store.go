package store

import (
	"context"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/idgen"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"

	"gorm.io/gorm"
)

type customerStore struct {
	db *gorm.DB
}

func (r *customerStore) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", id).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerStore) Create(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

func (r *customerStore) MaxSequence(ctx context.Context) (uint64, error) {
	var max uint64
	err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(CAST(SUBSTR(customer_id, ?) AS INTEGER)), 0) FROM customers",
			len(idgen.Customers.Prefix)+1).
		Scan(&max).Error
	return max, err
}
