package entity

import (
	"time"
)

// activityLogLimit bounds the per-admin activity log; oldest entries are
// evicted first.
const activityLogLimit = 100

const (
	PermVerifyDoctors   = "verify_doctors"
	PermModerateReviews = "moderate_reviews"
	PermManageUsers     = "manage_users"
	PermManageTaxonomy  = "manage_taxonomy"
)

type ActivityEntry struct {
	ID         string    `json:"id" firestore:"id"`
	Action     string    `json:"action" firestore:"action"`
	ResourceID string    `json:"resource_id,omitempty" firestore:"resourceId,omitempty"`
	Detail     string    `json:"detail,omitempty" firestore:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at" firestore:"occurredAt"`
}

// CompanyAdmin holds an administrative profile. The supervisor chain is a
// tree; assignments that would introduce a cycle are rejected upstream.
type CompanyAdmin struct {
	ID       string `json:"id" firestore:"id"`
	UserID   string `json:"user_id" firestore:"userId"`
	FullName string `json:"full_name" firestore:"fullName"`

	Permissions  []string `json:"permissions" firestore:"permissions"`
	SupervisorID string   `json:"supervisor_id,omitempty" firestore:"supervisorId,omitempty"`
	Subordinates []string `json:"subordinates,omitempty" firestore:"subordinates,omitempty"`

	ActivityLog []ActivityEntry `json:"activity_log,omitempty" firestore:"activityLog,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (a *CompanyAdmin) HasPermission(perm string) bool {
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// LogActivity appends an entry, evicting the oldest past the cap.
func (a *CompanyAdmin) LogActivity(entry ActivityEntry) {
	a.ActivityLog = append(a.ActivityLog, entry)
	if len(a.ActivityLog) > activityLogLimit {
		a.ActivityLog = a.ActivityLog[len(a.ActivityLog)-activityLogLimit:]
	}
}
