package models

// Customer is referenced by sessions and never mutated after creation.
// CustomerID is generated (CB00001 style).
type Customer struct {
	CustomerID string `gorm:"primaryKey;size:32;column:customer_id"`
	Name       string `gorm:"size:128;not null"`
	Email      string `gorm:"size:255;uniqueIndex;not null"`

	Sessions []Session `gorm:"foreignKey:CustomerID;references:CustomerID"`
}
