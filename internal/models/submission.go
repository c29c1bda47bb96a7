package models

import "time"

// SubmissionStatus tracks a form submission through follow-up.
type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "pending"
	StatusContacted SubmissionStatus = "contacted"
	StatusEnrolled  SubmissionStatus = "enrolled"
	StatusRejected  SubmissionStatus = "rejected"
)

// SubmissionStatuses lists every status in display order.
var SubmissionStatuses = []SubmissionStatus{StatusPending, StatusContacted, StatusEnrolled, StatusRejected}

// Valid reports whether s is a known status.
func (s SubmissionStatus) Valid() bool {
	for _, known := range SubmissionStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// SubmissionSource identifies the public form a submission came from.
type SubmissionSource string

const (
	SourceJoin     SubmissionSource = "join"
	SourceContact  SubmissionSource = "contact"
	SourceServices SubmissionSource = "services"
)

// SubmissionSources lists every source in display order.
var SubmissionSources = []SubmissionSource{SourceJoin, SourceContact, SourceServices}

// Valid reports whether s is a known source.
func (s SubmissionSource) Valid() bool {
	for _, known := range SubmissionSources {
		if s == known {
			return true
		}
	}
	return false
}

// Submission is a public contact or enrollment request.
// ContactedAt is set on the first transition into contacted and never changes afterwards.
type Submission struct {
	ID          string           `db:"id" bson:"_id" json:"id"`
	Name        string           `db:"name" bson:"name" json:"name"`
	Email       string           `db:"email" bson:"email" json:"email"`
	Tel         string           `db:"tel" bson:"tel" json:"tel"`
	Formation   string           `db:"formation" bson:"formation" json:"formation"`
	Message     string           `db:"message" bson:"message" json:"message"`
	Source      SubmissionSource `db:"source" bson:"source" json:"source"`
	Status      SubmissionStatus `db:"status" bson:"status" json:"status"`
	Notes       string           `db:"notes" bson:"notes" json:"notes"`
	ContactedAt *time.Time       `db:"contacted_at" bson:"contacted_at" json:"contactedAt"`
	HandledBy   *string          `db:"handled_by" bson:"handled_by" json:"handledBy"`
	CreatedAt   time.Time        `db:"created_at" bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" bson:"updated_at" json:"updatedAt"`
}

// Sort fields accepted by submission listings.
const (
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
	SortName      = "name"
	SortStatus    = "status"
)

// SubmissionFilter narrows listings and counts. Nil fields match everything.
// Limit zero means no limit.
type SubmissionFilter struct {
	Status   *SubmissionStatus
	Source   *SubmissionSource
	SortBy   string
	SortDesc bool
	Offset   int
	Limit    int
}

// StatusChange is applied atomically by the store.
type StatusChange struct {
	ID        string
	Status    SubmissionStatus
	Notes     *string
	HandledBy *string
	At        time.Time
}
