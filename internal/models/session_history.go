package models

import "time"

// SessionHistory is an append-only snapshot of a session taken at the moment
// it is deleted. Written once, never updated.
type SessionHistory struct {
	SessionID   string        `gorm:"primaryKey;size:32;column:session_id"`
	SessionName string        `gorm:"size:255;not null"`
	CustomerID  string        `gorm:"size:32;index;not null"`
	Remarks     string        `gorm:"size:255"`
	CreatedBy   string        `gorm:"size:64"`
	CreatedOn   time.Time     `gorm:"not null"`
	DeletedOn   time.Time     `gorm:"not null"`
	Status      SessionStatus `gorm:"size:2;not null"`
}
