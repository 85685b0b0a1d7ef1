package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/apperrors"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/database"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/idgen"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	stores    *store.Stores
	sessions  *SessionService
	customers *CustomerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "portal.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	stores := store.New(db)
	ids := idgen.New(stores)
	return &testEnv{
		db:        db,
		stores:    stores,
		sessions:  NewSessionService(stores, ids, Config{}),
		customers: NewCustomerService(stores, ids),
	}
}

func (e *testEnv) createCustomer(t *testing.T, name, email string) *CustomerResponse {
	t.Helper()
	customer, err := e.customers.Create(context.Background(), CustomerRequest{Name: name, Email: email})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return customer
}

func (e *testEnv) createSession(t *testing.T, customerID string) *SessionResponse {
	t.Helper()
	session, err := e.sessions.Create(context.Background(), SessionRequest{
		SessionName: "Onboarding review",
		CustomerID:  customerID,
		Remarks:     "kickoff notes",
		CreatedBy:   "rm-jordan",
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func (e *testEnv) historyCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&models.SessionHistory{}).Count(&count).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	return count
}

func wantKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("error = nil, want typed error")
	}
	if !apperrors.IsKind(err, kind) {
		t.Fatalf("error = %v, want kind %d", err, kind)
	}
}

// ---------- create ----------

func TestCreateCustomer_GeneratedID(t *testing.T) {
	env := newTestEnv(t)

	first := env.createCustomer(t, "Ada Lovelace", "ada@example.com")
	if first.CustomerID != "CB00001" {
		t.Errorf("first customer id = %q, want CB00001", first.CustomerID)
	}

	second := env.createCustomer(t, "Alan Turing", "alan@example.com")
	if second.CustomerID != "CB00002" {
		t.Errorf("second customer id = %q, want CB00002", second.CustomerID)
	}
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	_, err := env.customers.Create(context.Background(), CustomerRequest{
		Name:  "Someone Else",
		Email: "Ada@Example.com",
	})
	wantKind(t, err, apperrors.KindConflict)
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	env.sessions.now = func() time.Time { return now }

	session := env.createSession(t, customer.CustomerID)

	if session.SessionID != "Session000001" {
		t.Errorf("session id = %q, want Session000001", session.SessionID)
	}
	if session.Status != models.StatusActive {
		t.Errorf("status = %q, want %q", session.Status, models.StatusActive)
	}
	if !session.CreatedOn.Equal(session.UpdatedOn) {
		t.Errorf("created_on %v != updated_on %v on a fresh session", session.CreatedOn, session.UpdatedOn)
	}
	if !session.CreatedOn.Equal(now) {
		t.Errorf("created_on = %v, want %v", session.CreatedOn, now)
	}
	if session.ArchiveFlag != FlagNotEligible {
		t.Errorf("archive flag = %q, want %q", session.ArchiveFlag, FlagNotEligible)
	}
	if session.CustomerName != "Ada Lovelace" {
		t.Errorf("customer name = %q, want Ada Lovelace", session.CustomerName)
	}

	second := env.createSession(t, customer.CustomerID)
	if second.SessionID != "Session000002" {
		t.Errorf("second session id = %q, want Session000002", second.SessionID)
	}
}

func TestCreateSession_SeedsFromExistingRows(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	// simulate rows left over from a previous process
	existing := &models.Session{
		SessionID:   "Session000007",
		SessionName: "Old session",
		CustomerID:  customer.CustomerID,
		Remarks:     "leftover",
		CreatedBy:   "rm-jordan",
		CreatedOn:   time.Now(),
		UpdatedOn:   time.Now(),
		Status:      models.StatusActive,
	}
	if err := env.stores.Sessions.Create(context.Background(), existing); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	session := env.createSession(t, customer.CustomerID)
	if session.SessionID != "Session000008" {
		t.Errorf("session id = %q, want Session000008", session.SessionID)
	}
}

func TestCreateSession_CustomerNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessions.Create(context.Background(), SessionRequest{
		SessionName: "Onboarding review",
		CustomerID:  "CB99999",
		Remarks:     "kickoff notes",
		CreatedBy:   "rm-jordan",
	})
	wantKind(t, err, apperrors.KindNotFound)
	if err.Error() != "Customer NOT found" {
		t.Errorf("error message = %q, want %q", err.Error(), "Customer NOT found")
	}
}

func TestCreateSession_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	full := SessionRequest{
		SessionName: "Onboarding review",
		CustomerID:  customer.CustomerID,
		Remarks:     "kickoff notes",
		CreatedBy:   "rm-jordan",
	}

	cases := []struct {
		name   string
		mutate func(r *SessionRequest)
	}{
		{"session name", func(r *SessionRequest) { r.SessionName = "" }},
		{"customer id", func(r *SessionRequest) { r.CustomerID = "" }},
		{"remarks", func(r *SessionRequest) { r.Remarks = "" }},
		{"created by", func(r *SessionRequest) { r.CreatedBy = "" }},
	}

	for _, tc := range cases {
		req := full
		tc.mutate(&req)
		_, err := env.sessions.Create(context.Background(), req)
		if err == nil {
			t.Errorf("create without %s error = nil, want validation error", tc.name)
			continue
		}
		if !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("create without %s error = %v, want validation kind", tc.name, err)
		}
	}
}

// ---------- update ----------

func TestUpdateSession(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	env.sessions.now = func() time.Time { return created }
	session := env.createSession(t, customer.CustomerID)

	updated := created.Add(2 * time.Hour)
	env.sessions.now = func() time.Time { return updated }

	resp, err := env.sessions.Update(context.Background(), session.SessionID, SessionRequest{
		SessionName: "Quarterly review",
		CustomerID:  customer.CustomerID,
		Remarks:     "rescheduled",
		CreatedBy:   "rm-casey",
	})
	if err != nil {
		t.Fatalf("update session: %v", err)
	}

	if resp.SessionName != "Quarterly review" {
		t.Errorf("session name = %q, want Quarterly review", resp.SessionName)
	}
	if !resp.UpdatedOn.Equal(updated) {
		t.Errorf("updated_on = %v, want %v", resp.UpdatedOn, updated)
	}
	if !resp.CreatedOn.Equal(created) {
		t.Errorf("created_on = %v, want unchanged %v", resp.CreatedOn, created)
	}
	if resp.Status != models.StatusActive {
		t.Errorf("status = %q, want unchanged %q", resp.Status, models.StatusActive)
	}

	// persisted too, not just the response
	stored, err := env.stores.Sessions.FindByID(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.SessionName != "Quarterly review" || stored.CreatedBy != "rm-casey" {
		t.Errorf("stored session = %q by %q, want Quarterly review by rm-casey",
			stored.SessionName, stored.CreatedBy)
	}
	if stored.Version != 1 {
		t.Errorf("stored version = %d, want 1", stored.Version)
	}
}

func TestUpdateSession_ReassignCustomer(t *testing.T) {
	env := newTestEnv(t)
	first := env.createCustomer(t, "Ada Lovelace", "ada@example.com")
	second := env.createCustomer(t, "Alan Turing", "alan@example.com")

	session := env.createSession(t, first.CustomerID)

	resp, err := env.sessions.Update(context.Background(), session.SessionID, SessionRequest{
		SessionName: session.SessionName,
		CustomerID:  second.CustomerID,
		Remarks:     session.Remarks,
		CreatedBy:   session.CreatedBy,
	})
	if err != nil {
		t.Fatalf("update session: %v", err)
	}
	if resp.CustomerID != second.CustomerID {
		t.Errorf("customer id = %q, want %q", resp.CustomerID, second.CustomerID)
	}
	if resp.CustomerName != "Alan Turing" {
		t.Errorf("customer name = %q, want Alan Turing", resp.CustomerName)
	}
}

func TestUpdateSession_Archived(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")
	session := env.createSession(t, customer.CustomerID)

	if err := env.sessions.Archive(context.Background(), session.SessionID); err != nil {
		t.Fatalf("archive session: %v", err)
	}

	_, err := env.sessions.Update(context.Background(), session.SessionID, SessionRequest{
		SessionName: "Should not stick",
		CustomerID:  customer.CustomerID,
		Remarks:     "nope",
		CreatedBy:   "rm-casey",
	})
	wantKind(t, err, apperrors.KindConflict)
	if err.Error() != "Cannot Update an Archive session" {
		t.Errorf("error message = %q, want %q", err.Error(), "Cannot Update an Archive session")
	}

	// the record is untouched
	stored, ferr := env.stores.Sessions.FindByID(context.Background(), session.SessionID)
	if ferr != nil {
		t.Fatalf("reload session: %v", ferr)
	}
	if stored.SessionName != session.SessionName {
		t.Errorf("stored name = %q, want unchanged %q", stored.SessionName, session.SessionName)
	}
}

func TestUpdateSession_NotFound(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	_, err := env.sessions.Update(context.Background(), "Session999999", SessionRequest{
		SessionName: "Ghost",
		CustomerID:  customer.CustomerID,
		Remarks:     "none",
		CreatedBy:   "rm-casey",
	})
	wantKind(t, err, apperrors.KindNotFound)
	if err.Error() != "NO SESSION FOUND" {
		t.Errorf("error message = %q, want %q", err.Error(), "NO SESSION FOUND")
	}
}

func TestUpdateSession_CustomerNotFound(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")
	session := env.createSession(t, customer.CustomerID)

	_, err := env.sessions.Update(context.Background(), session.SessionID, SessionRequest{
		SessionName: session.SessionName,
		CustomerID:  "CB99999",
		Remarks:     session.Remarks,
		CreatedBy:   session.CreatedBy,
	})
	wantKind(t, err, apperrors.KindNotFound)
	if err.Error() != "Customer NOT found" {
		t.Errorf("error message = %q, want %q", err.Error(), "Customer NOT found")
	}
}

// ---------- delete ----------

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	env.sessions.now = func() time.Time { return created }
	session := env.createSession(t, customer.CustomerID)

	deleted := created.Add(24 * time.Hour)
	env.sessions.now = func() time.Time { return deleted }

	if err := env.sessions.Delete(context.Background(), session.SessionID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	// exactly one history snapshot
	if got := env.historyCount(t); got != 1 {
		t.Fatalf("history count = %d, want 1", got)
	}
	var history models.SessionHistory
	if err := env.db.First(&history, "session_id = ?", session.SessionID).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if history.Status != models.StatusDeleted {
		t.Errorf("history status = %q, want %q", history.Status, models.StatusDeleted)
	}
	if history.DeletedOn.Before(session.UpdatedOn) {
		t.Errorf("deleted_on %v before the session's updated_on %v", history.DeletedOn, session.UpdatedOn)
	}
	if history.SessionName != session.SessionName || history.CustomerID != session.CustomerID {
		t.Errorf("history snapshot = %q/%q, want %q/%q",
			history.SessionName, history.CustomerID, session.SessionName, session.CustomerID)
	}

	// gone from lookups and listings
	if _, err := env.stores.Sessions.FindByID(context.Background(), session.SessionID); err == nil {
		t.Error("FindByID after delete error = nil, want not found")
	}
	_, err := env.sessions.List(context.Background(), "A", 0, 10)
	wantKind(t, err, apperrors.KindNotFound)

	// deleting again is NotFound, and adds no history
	err = env.sessions.Delete(context.Background(), session.SessionID)
	wantKind(t, err, apperrors.KindNotFound)
	if got := env.historyCount(t); got != 1 {
		t.Errorf("history count after second delete = %d, want 1", got)
	}
}

func TestDeleteSession_Archived(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")
	session := env.createSession(t, customer.CustomerID)

	if err := env.sessions.Archive(context.Background(), session.SessionID); err != nil {
		t.Fatalf("archive session: %v", err)
	}

	err := env.sessions.Delete(context.Background(), session.SessionID)
	wantKind(t, err, apperrors.KindConflict)
	if err.Error() != "Cannot Delete an Archive session" {
		t.Errorf("error message = %q, want %q", err.Error(), "Cannot Delete an Archive session")
	}
	if got := env.historyCount(t); got != 0 {
		t.Errorf("history count = %d, want 0", got)
	}
}

// ---------- archive ----------

func TestArchiveSession(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	env.sessions.now = func() time.Time { return created }
	session := env.createSession(t, customer.CustomerID)

	archived := created.Add(time.Hour)
	env.sessions.now = func() time.Time { return archived }

	if err := env.sessions.Archive(context.Background(), session.SessionID); err != nil {
		t.Fatalf("archive session: %v", err)
	}

	stored, err := env.stores.Sessions.FindByID(context.Background(), session.SessionID)
	if err != nil {
		t.Fatalf("reload session: %v", err)
	}
	if stored.Status != models.StatusArchived {
		t.Errorf("status = %q, want %q", stored.Status, models.StatusArchived)
	}
	if !stored.UpdatedOn.Equal(archived) {
		t.Errorf("updated_on = %v, want %v", stored.UpdatedOn, archived)
	}

	// archiving twice is a conflict
	err = env.sessions.Archive(context.Background(), session.SessionID)
	wantKind(t, err, apperrors.KindConflict)
	if err.Error() != "Session is already Archived" {
		t.Errorf("error message = %q, want %q", err.Error(), "Session is already Archived")
	}
}

// ---------- list ----------

func TestListSessions(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		tick := base.Add(time.Duration(i) * time.Hour)
		env.sessions.now = func() time.Time { return tick }
		session := env.createSession(t, customer.CustomerID)
		ids = append(ids, session.SessionID)
	}

	page, err := env.sessions.List(context.Background(), "A", 0, 2)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if page.TotalElements != 3 {
		t.Errorf("total elements = %d, want 3", page.TotalElements)
	}
	if page.TotalPages != 2 {
		t.Errorf("total pages = %d, want 2", page.TotalPages)
	}
	if len(page.Sessions) != 2 {
		t.Fatalf("page size = %d, want 2", len(page.Sessions))
	}

	// newest updated_on first
	if page.Sessions[0].SessionID != ids[2] || page.Sessions[1].SessionID != ids[1] {
		t.Errorf("page order = [%s %s], want [%s %s]",
			page.Sessions[0].SessionID, page.Sessions[1].SessionID, ids[2], ids[1])
	}

	last, err := env.sessions.List(context.Background(), "A", 1, 2)
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(last.Sessions) != 1 || last.Sessions[0].SessionID != ids[0] {
		t.Errorf("last page = %v, want just %s", last.Sessions, ids[0])
	}

	// lower-case filter works too
	if _, err := env.sessions.List(context.Background(), "a", 0, 10); err != nil {
		t.Errorf("List(a) error = %v, want nil", err)
	}
}

func TestListSessions_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	for _, status := range []string{"Q", "D", ""} {
		_, err := env.sessions.List(context.Background(), status, 0, 10)
		if err == nil {
			t.Errorf("List(%q) error = nil, want validation error", status)
			continue
		}
		if !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Errorf("List(%q) error = %v, want validation kind", status, err)
		}
		if err.Error() != models.MsgWrongStatus {
			t.Errorf("List(%q) message = %q, want %q", status, err.Error(), models.MsgWrongStatus)
		}
	}
}

func TestListSessions_BadPaging(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.sessions.List(context.Background(), "A", -1, 10); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("List(page -1) error = %v, want validation", err)
	}
	if _, err := env.sessions.List(context.Background(), "A", 0, 0); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Errorf("List(size 0) error = %v, want validation", err)
	}
}

func TestListSessions_EmptyPage(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")

	// empty store
	_, err := env.sessions.List(context.Background(), "A", 0, 10)
	wantKind(t, err, apperrors.KindNotFound)

	// a page past the end of a non-empty result set
	env.createSession(t, customer.CustomerID)
	_, err = env.sessions.List(context.Background(), "A", 5, 10)
	wantKind(t, err, apperrors.KindNotFound)
	if err.Error() != "NO SESSION FOUND" {
		t.Errorf("error message = %q, want %q", err.Error(), "NO SESSION FOUND")
	}
}

func TestListSessions_ArchiveFlags(t *testing.T) {
	env := newTestEnv(t)
	customer := env.createCustomer(t, "Ada Lovelace", "ada@example.com")
	now := time.Now()

	// dormant for 11 days: eligible
	stale := now.AddDate(0, 0, -11)
	env.sessions.now = func() time.Time { return stale }
	dormant := env.createSession(t, customer.CustomerID)

	// touched 5 days ago: not eligible
	fresh := now.AddDate(0, 0, -5)
	env.sessions.now = func() time.Time { return fresh }
	recent := env.createSession(t, customer.CustomerID)

	// archived long ago: not applicable
	old := now.AddDate(0, 0, -30)
	env.sessions.now = func() time.Time { return old }
	archived := env.createSession(t, customer.CustomerID)
	if err := env.sessions.Archive(context.Background(), archived.SessionID); err != nil {
		t.Fatalf("archive session: %v", err)
	}

	env.sessions.now = func() time.Time { return now }

	active, err := env.sessions.List(context.Background(), "A", 0, 10)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	flags := map[string]ArchiveFlag{}
	for _, s := range active.Sessions {
		flags[s.SessionID] = s.ArchiveFlag
	}
	if flags[dormant.SessionID] != FlagEligible {
		t.Errorf("dormant session flag = %q, want %q", flags[dormant.SessionID], FlagEligible)
	}
	if flags[recent.SessionID] != FlagNotEligible {
		t.Errorf("recent session flag = %q, want %q", flags[recent.SessionID], FlagNotEligible)
	}

	archivedPage, err := env.sessions.List(context.Background(), "X", 0, 10)
	if err != nil {
		t.Fatalf("list archived: %v", err)
	}
	if len(archivedPage.Sessions) != 1 {
		t.Fatalf("archived page size = %d, want 1", len(archivedPage.Sessions))
	}
	if archivedPage.Sessions[0].ArchiveFlag != FlagNotApplicable {
		t.Errorf("archived session flag = %q, want %q",
			archivedPage.Sessions[0].ArchiveFlag, FlagNotApplicable)
	}
}
