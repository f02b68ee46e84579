package entity

import (
	"time"
)

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewFlagged  = "flagged"
	ReviewRejected = "rejected"
)

type AspectRatings struct {
	WaitTime          int `json:"wait_time" firestore:"waitTime"`
	BedsideManner     int `json:"bedside_manner" firestore:"bedsideManner"`
	Communication     int `json:"communication" firestore:"communication"`
	Thoroughness      int `json:"thoroughness" firestore:"thoroughness"`
	OfficeEnvironment int `json:"office_environment" firestore:"officeEnvironment"`
}

type ReviewFlag struct {
	ID        string    `json:"id" firestore:"id"`
	FlaggedBy string    `json:"flagged_by" firestore:"flaggedBy"`
	Reason    string    `json:"reason" firestore:"reason"`
	FlaggedAt time.Time `json:"flagged_at" firestore:"flaggedAt"`
}

type ReviewEdit struct {
	PreviousComment string    `json:"previous_comment" firestore:"previousComment"`
	EditedAt        time.Time `json:"edited_at" firestore:"editedAt"`
}

type DoctorResponse struct {
	Comment     string    `json:"comment" firestore:"comment"`
	RespondedAt time.Time `json:"responded_at" firestore:"respondedAt"`
}

// Review is 1:1 with a completed appointment; its document id in the store
// is the appointment id, which makes the uniqueness constraint a single
// conditional create.
type Review struct {
	ID            string `json:"id" firestore:"id"`
	AppointmentID string `json:"appointment_id" firestore:"appointmentId"`
	CustomerID    string `json:"customer_id" firestore:"customerId"`
	DoctorID      string `json:"doctor_id" firestore:"doctorId"`

	Rating  int           `json:"rating" firestore:"rating"` // 1-5
	Aspects AspectRatings `json:"aspects" firestore:"aspects"`
	Comment string        `json:"comment" firestore:"comment"`

	Status          string `json:"status" firestore:"status"`
	ModerationNotes string `json:"moderation_notes,omitempty" firestore:"moderationNotes,omitempty"`

	// RatingCounted marks that this review has been folded into the
	// doctor's running average; re-approval after a flag must not recount.
	RatingCounted bool `json:"rating_counted" firestore:"ratingCounted"`

	HelpfulVotes    []string `json:"helpful_votes,omitempty" firestore:"helpfulVotes,omitempty"`
	NotHelpfulVotes []string `json:"not_helpful_votes,omitempty" firestore:"notHelpfulVotes,omitempty"`
	HelpfulCount    int      `json:"helpful_count" firestore:"helpfulCount"`
	NotHelpfulCount int      `json:"not_helpful_count" firestore:"notHelpfulCount"`

	Response    *DoctorResponse `json:"response,omitempty" firestore:"response,omitempty"`
	Flags       []ReviewFlag    `json:"flags,omitempty" firestore:"flags,omitempty"`
	EditHistory []ReviewEdit    `json:"edit_history,omitempty" firestore:"editHistory,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Vote toggles userID's membership between the two exclusive vote sets.
// Re-voting the same kind is a no-op; it returns false in that case.
func (r *Review) Vote(userID string, helpful bool) bool {
	in, out := &r.HelpfulVotes, &r.NotHelpfulVotes
	if !helpful {
		in, out = out, in
	}

	for _, id := range *in {
		if id == userID {
			return false
		}
	}

	for i, id := range *out {
		if id == userID {
			*out = append((*out)[:i], (*out)[i+1:]...)
			break
		}
	}

	*in = append(*in, userID)
	r.HelpfulCount = len(r.HelpfulVotes)
	r.NotHelpfulCount = len(r.NotHelpfulVotes)
	return true
}

func (r *Review) FlaggedBy(userID string) bool {
	for _, f := range r.Flags {
		if f.FlaggedBy == userID {
			return true
		}
	}
	return false
}

// Editable reports whether the owning customer may still edit: within 24
// hours of creation and not yet approved.
func (r *Review) Editable(now time.Time) bool {
	return r.Status != ReviewApproved && now.Sub(r.CreatedAt) <= 24*time.Hour
}
