package service

import (
	"context"
	"errors"
	"time"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/apperrors"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/idgen"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/store"

	"gorm.io/gorm"
)

// Fixed API messages, kept verbatim from the portal contract.
const (
	MsgSessionCreated  = "Session created successfully"
	MsgSessionUpdated  = "Session updated successfully"
	MsgSessionDeleted  = "Session Deleted"
	MsgSessionArchived = "Session Archived"

	msgSessionNotFound  = "NO SESSION FOUND"
	msgCustomerNotFound = "Customer NOT found"
	msgBadPaging        = "page index must be >= 0 and page size must be > 0"
)

// sortColumns whitelists the configurable listing sort key.
var sortColumns = map[string]string{
	"updated_on":   "updated_on",
	"created_on":   "created_on",
	"session_name": "session_name",
}

const defaultSortColumn = "updated_on"

// Config is the immutable policy injected at construction.
type Config struct {
	// MaximumDormantDays is the dormancy threshold for the archive
	// eligibility flag. Default 10.
	MaximumDormantDays int
	// SortSessionsBy is the listing sort column. Default updated_on.
	SortSessionsBy string
}

// SessionService is the session lifecycle engine. It holds no mutable state
// across calls beyond the injected configuration, so one instance serves
// concurrent requests.
type SessionService struct {
	stores      *store.Stores
	ids         *idgen.Generator
	dormantDays int
	sortColumn  string

	now func() time.Time
}

func NewSessionService(stores *store.Stores, ids *idgen.Generator, cfg Config) *SessionService {
	days := cfg.MaximumDormantDays
	if days <= 0 {
		days = 10
	}
	column, ok := sortColumns[cfg.SortSessionsBy]
	if !ok {
		column = defaultSortColumn
	}
	return &SessionService{
		stores:      stores,
		ids:         ids,
		dormantDays: days,
		sortColumn:  column,
		now:         time.Now,
	}
}

// SessionRequest carries the writable session fields for create and update.
type SessionRequest struct {
	SessionName string
	CustomerID  string
	Remarks     string
	CreatedBy   string
}

// SessionResponse is a freshly built result value, one per call.
type SessionResponse struct {
	SessionID    string               `json:"session_id"`
	SessionName  string               `json:"session_name"`
	CustomerID   string               `json:"customer_id"`
	CustomerName string               `json:"customer_name"`
	Remarks      string               `json:"remarks"`
	CreatedBy    string               `json:"created_by"`
	CreatedOn    time.Time            `json:"created_on"`
	UpdatedOn    time.Time            `json:"updated_on"`
	Status       models.SessionStatus `json:"status"`
	ArchiveFlag  ArchiveFlag          `json:"archive_flag"`
}

// SessionPage is one page of a status-scoped listing.
type SessionPage struct {
	Sessions      []SessionResponse `json:"sessions"`
	TotalElements int64             `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
}

func (r SessionRequest) validate() error {
	switch {
	case r.SessionName == "":
		return apperrors.Validation("Session name is required")
	case r.CustomerID == "":
		return apperrors.Validation("Customer Id is required")
	case r.Remarks == "":
		return apperrors.Validation("Remarks are required")
	case r.CreatedBy == "":
		return apperrors.Validation("Created By is required")
	}
	return nil
}

// Create allocates a session id and stores a new Active session with
// created_on == updated_on.
func (s *SessionService) Create(ctx context.Context, req SessionRequest) (*SessionResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	customer, err := s.stores.Customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(msgCustomerNotFound)
		}
		return nil, apperrors.Storage("look up customer", err)
	}

	id, err := s.ids.Next(ctx, idgen.Sessions)
	if err != nil {
		return nil, apperrors.Storage("allocate session id", err)
	}

	now := s.now()
	session := &models.Session{
		SessionID:   id,
		SessionName: req.SessionName,
		CustomerID:  customer.CustomerID,
		Remarks:     req.Remarks,
		CreatedBy:   req.CreatedBy,
		CreatedOn:   now,
		UpdatedOn:   now,
		Status:      models.StatusActive,
	}
	if err := s.stores.Sessions.Create(ctx, session); err != nil {
		return nil, apperrors.Storage("save session", err)
	}

	session.Customer = *customer
	resp := s.toResponse(session, FlagNotEligible)
	return &resp, nil
}

// List returns one page of sessions in the given status, newest first by the
// configured sort column, each carrying its archive eligibility flag. An
// empty page is NotFound by contract.
func (s *SessionService) List(ctx context.Context, statusFilter string, page, size int) (*SessionPage, error) {
	status, err := models.ParseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}
	if page < 0 || size <= 0 {
		return nil, apperrors.Validation(msgBadPaging)
	}

	sessions, total, err := s.stores.Sessions.FindByStatusPaged(ctx, status, page, size, s.sortColumn)
	if err != nil {
		return nil, apperrors.Storage("list sessions", err)
	}
	if len(sessions) == 0 {
		return nil, apperrors.NotFound(msgSessionNotFound)
	}

	now := s.now()
	items := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		flag := ArchiveFlagFor(sessions[i].Status, sessions[i].UpdatedOn, now, s.dormantDays)
		items = append(items, s.toResponse(&sessions[i], flag))
	}

	return &SessionPage{
		Sessions:      items,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// Update overwrites the writable fields of a non-archived session and
// refreshes updated_on. The status is never changed here.
func (s *SessionService) Update(ctx context.Context, sessionID string, req SessionRequest) (*SessionResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	customer, err := s.stores.Customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(msgCustomerNotFound)
		}
		return nil, apperrors.Storage("look up customer", err)
	}
	if err := session.Status.CanApply(models.OpUpdate); err != nil {
		return nil, err
	}

	session.SessionName = req.SessionName
	session.Remarks = req.Remarks
	session.CreatedBy = req.CreatedBy
	session.CustomerID = customer.CustomerID
	session.UpdatedOn = s.now()

	if err := s.stores.Sessions.Update(ctx, session); err != nil {
		return nil, s.mapUpdateErr("update session", err)
	}

	session.Customer = *customer
	resp := s.toResponse(session, FlagNotEligible)
	return &resp, nil
}

// Delete snapshots the session into history and hides it from further
// operations. Snapshot and status flip commit together or not at all.
func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := session.Status.CanApply(models.OpDelete); err != nil {
		return err
	}

	now := s.now()
	err = s.stores.Transaction(ctx, func(tx *store.Stores) error {
		session.Status = models.StatusDeleted
		if err := tx.Sessions.Update(ctx, session); err != nil {
			return err
		}
		history := &models.SessionHistory{
			SessionID:   session.SessionID,
			SessionName: session.SessionName,
			CustomerID:  session.CustomerID,
			Remarks:     session.Remarks,
			CreatedBy:   session.CreatedBy,
			CreatedOn:   session.CreatedOn,
			DeletedOn:   now,
			Status:      models.StatusDeleted,
		}
		return tx.History.Create(ctx, history)
	})
	if err != nil {
		return s.mapUpdateErr("delete session", err)
	}
	return nil
}

// Archive moves an Active session to Archived. There is no way back.
func (s *SessionService) Archive(ctx context.Context, sessionID string) error {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := session.Status.CanApply(models.OpArchive); err != nil {
		return err
	}

	session.Status = models.StatusArchived
	session.UpdatedOn = s.now()
	if err := s.stores.Sessions.Update(ctx, session); err != nil {
		return s.mapUpdateErr("archive session", err)
	}
	return nil
}

func (s *SessionService) findSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.stores.Sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(msgSessionNotFound)
		}
		return nil, apperrors.Storage("look up session", err)
	}
	return session, nil
}

func (s *SessionService) mapUpdateErr(step string, err error) error {
	if errors.Is(err, store.ErrStaleSession) {
		return apperrors.Conflict(store.ErrStaleSession.Error())
	}
	return apperrors.Storage(step, err)
}

func (s *SessionService) toResponse(session *models.Session, flag ArchiveFlag) SessionResponse {
	return SessionResponse{
		SessionID:    session.SessionID,
		SessionName:  session.SessionName,
		CustomerID:   session.CustomerID,
		CustomerName: session.Customer.Name,
		Remarks:      session.Remarks,
		CreatedBy:    session.CreatedBy,
		CreatedOn:    session.CreatedOn,
		UpdatedOn:    session.UpdatedOn,
		Status:       session.Status,
		ArchiveFlag:  flag,
	}
}
