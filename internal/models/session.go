package models

import "time"

// Session is a customer-relationship working session owned by one customer.
// SessionID is generated (Session000001 style) and never changes; Version is
// the optimistic concurrency token bumped by every store update.
type Session struct {
	SessionID   string        `gorm:"primaryKey;size:32;column:session_id"`
	SessionName string        `gorm:"size:255;not null"`
	CustomerID  string        `gorm:"size:32;index;not null"`
	Remarks     string        `gorm:"size:255"`
	CreatedBy   string        `gorm:"size:64"`
	CreatedOn   time.Time     `gorm:"not null"`
	UpdatedOn   time.Time     `gorm:"index;not null"`
	Status      SessionStatus `gorm:"size:2;index;not null"`
	Version     int64         `gorm:"not null;default:0"`

	Customer Customer `gorm:"foreignKey:CustomerID;references:CustomerID"`
}
