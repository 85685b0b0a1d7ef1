package store

import (
	"context"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"

	"gorm.io/gorm"
)

type historyStore struct {
	db *gorm.DB
}

func (r *historyStore) Create(ctx context.Context, h *models.SessionHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}
