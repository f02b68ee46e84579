package entity

import (
	"time"
)

const (
	VerificationPending   = "pending_verification"
	VerificationVerified  = "verified"
	VerificationSuspended = "suspended"
	VerificationRejected  = "rejected"
)

type AvailabilitySlot struct {
	DayOfWeek int    `json:"day_of_week" firestore:"dayOfWeek"` // 0 = Sunday
	StartTime string `json:"start_time" firestore:"startTime"`  // "09:00"
	EndTime   string `json:"end_time" firestore:"endTime"`      // "17:00"
}

type RatingAggregate struct {
	Average float64 `json:"average" firestore:"average"`
	Count   int     `json:"count" firestore:"count"`
}

type AppointmentCounters struct {
	Total     int `json:"total" firestore:"total"`
	Completed int `json:"completed" firestore:"completed"`
	Cancelled int `json:"cancelled" firestore:"cancelled"`
}

type Doctor struct {
	ID            string `json:"id" firestore:"id"`
	UserID        string `json:"user_id" firestore:"userId"`
	FullName      string `json:"full_name" firestore:"fullName"`
	LicenseNumber string `json:"license_number" firestore:"licenseNumber"`
	Bio           string `json:"bio,omitempty" firestore:"bio,omitempty"`

	SpecialtyIDs    []string `json:"specialty_ids" firestore:"specialtyIds"`
	ConsultationFee float64  `json:"consultation_fee" firestore:"consultationFee"`

	City    string `json:"city" firestore:"city"`
	State   string `json:"state" firestore:"state"`
	Address string `json:"address,omitempty" firestore:"address,omitempty"`

	PracticeStartYear int                `json:"practice_start_year,omitempty" firestore:"practiceStartYear,omitempty"`
	Availability      []AvailabilitySlot `json:"availability,omitempty" firestore:"availability,omitempty"`

	VerificationStatus string              `json:"verification_status" firestore:"verificationStatus"`
	Ratings            RatingAggregate     `json:"ratings" firestore:"ratings"`
	Appointments       AppointmentCounters `json:"appointments" firestore:"appointments"`

	ProfileImageURL    string `json:"profile_image_url,omitempty" firestore:"profileImageURL,omitempty"`
	LicenseDocumentURL string `json:"license_document_url,omitempty" firestore:"licenseDocumentURL,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (d *Doctor) IsVerified() bool {
	return d.VerificationStatus == VerificationVerified
}

func (d *Doctor) YearsOfExperience(now time.Time) int {
	if d.PracticeStartYear <= 0 || d.PracticeStartYear > now.Year() {
		return 0
	}
	return now.Year() - d.PracticeStartYear
}

// RefundAmount computes the refund owed when an appointment is cancelled
// hoursBefore its scheduled start: full fee at 48h or more, half at 24h or
// more, nothing below that (including cancellations after the start time).
func (d *Doctor) RefundAmount(hoursBefore float64) float64 {
	switch {
	case hoursBefore >= 48:
		return d.ConsultationFee
	case hoursBefore >= 24:
		return d.ConsultationFee * 0.5
	default:
		return 0
	}
}
