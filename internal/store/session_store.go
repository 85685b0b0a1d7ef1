package store

import (
	"context"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/idgen"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"

	"gorm.io/gorm"
)

type sessionStore struct {
	db *gorm.DB
}

// scope hides deleted rows from every lookup and listing.
func (r *sessionStore) scope(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("status <> ?", models.StatusDeleted)
}

func (r *sessionStore) FindByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := r.scope(ctx).
		Preload("Customer").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionStore) Create(ctx context.Context, s *models.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Update writes all mutable fields guarded by the version column. Zero rows
// affected means either the row vanished or a concurrent writer bumped the
// version first; both surface as ErrStaleSession.
func (r *sessionStore) Update(ctx context.Context, s *models.Session) error {
	res := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("session_id = ? AND version = ?", s.SessionID, s.Version).
		Updates(map[string]interface{}{
			"session_name": s.SessionName,
			"customer_id":  s.CustomerID,
			"remarks":      s.Remarks,
			"created_by":   s.CreatedBy,
			"updated_on":   s.UpdatedOn,
			"status":       s.Status,
			"version":      s.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleSession
	}
	s.Version++
	return nil
}

func (r *sessionStore) FindByStatusPaged(ctx context.Context, status models.SessionStatus, page, size int, sortColumn string) ([]models.Session, int64, error) {
	base := r.scope(ctx).Where("status = ?", status)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.Session
	err := base.Session(&gorm.Session{}).
		Preload("Customer").
		Order(sortColumn + " DESC").
		Limit(size).
		Offset(page * size).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *sessionStore) FindByStatus(ctx context.Context, status models.SessionStatus, sortColumn string) ([]models.Session, error) {
	var sessions []models.Session
	err := r.scope(ctx).
		Where("status = ?", status).
		Preload("Customer").
		Order(sortColumn + " DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// MaxSequence parses the numeric suffix of every session id, deleted rows
// included, so a freed id is never handed out twice.
func (r *sessionStore) MaxSequence(ctx context.Context) (uint64, error) {
	var max uint64
	err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(CAST(SUBSTR(session_id, ?) AS INTEGER)), 0) FROM sessions",
			len(idgen.Sessions.Prefix)+1).
		Scan(&max).Error
	return max, err
}
