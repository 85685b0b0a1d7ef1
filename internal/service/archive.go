package service

import (
	"time"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"
)

// ArchiveFlag is display-only metadata on listed sessions. It never triggers
// a transition; only an explicit Archive call does.
type ArchiveFlag string

const (
	FlagEligible      ArchiveFlag = "Y"
	FlagNotEligible   ArchiveFlag = "N"
	FlagNotApplicable ArchiveFlag = "NA"
)

// ArchiveFlagFor reports whether an active session has sat untouched past
// the dormancy threshold. Archived sessions are flagged NA regardless of
// their timestamps.
func ArchiveFlagFor(status models.SessionStatus, updatedOn, now time.Time, dormantDays int) ArchiveFlag {
	if status != models.StatusActive {
		return FlagNotApplicable
	}
	archiveDate := updatedOn.AddDate(0, 0, dormantDays)
	if archiveDate.Before(now) {
		return FlagEligible
	}
	return FlagNotEligible
}
