package models

import (
	"time"
)

// MinOverrideReasonLength is the audit-integrity floor: an override without a
// non-trivial justification is rejected.
const MinOverrideReasonLength = 10

// Override is a signed human exception linked to one decision. Rows are
// append-only: they are never updated or deleted, and a new override
// supersedes the previous one by reference through the decision's pointer.
type Override struct {
	Id             string
	PrDecisionId   string
	UserLogin      string
	OverrideReason string
	Category       string
	TtlHours       *int
	CreatedAt      time.Time
}

// ExpiresAt returns the expiry instant, or nil for overrides without a TTL.
func (o Override) ExpiresAt() *time.Time {
	if o.TtlHours == nil {
		return nil
	}
	t := o.CreatedAt.Add(time.Duration(*o.TtlHours) * time.Hour)
	return &t
}

// IsExpired is evaluated at read time; there is no background expiry job.
func (o Override) IsExpired(now time.Time) bool {
	expiry := o.ExpiresAt()
	return expiry != nil && now.After(*expiry)
}

type CreateOverrideInput struct {
	DecisionId string
	UserLogin  string
	Reason     string
	Category   string
	TtlHours   *int
}
