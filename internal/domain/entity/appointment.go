package entity

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentPending     AppointmentStatus = "pending"
	AppointmentConfirmed   AppointmentStatus = "confirmed"
	AppointmentInProgress  AppointmentStatus = "in_progress"
	AppointmentCompleted   AppointmentStatus = "completed"
	AppointmentCancelled   AppointmentStatus = "cancelled"
	AppointmentNoShow      AppointmentStatus = "no_show"
	AppointmentRescheduled AppointmentStatus = "rescheduled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type Payment struct {
	Amount float64 `json:"amount" firestore:"amount"`
	Status string  `json:"status" firestore:"status"`
}

type CancellationRecord struct {
	CancelledBy  string    `json:"cancelled_by" firestore:"cancelledBy"`
	Reason       string    `json:"reason,omitempty" firestore:"reason,omitempty"`
	RefundAmount float64   `json:"refund_amount" firestore:"refundAmount"`
	CancelledAt  time.Time `json:"cancelled_at" firestore:"cancelledAt"`
}

type RescheduleRecord struct {
	ID              string    `json:"id" firestore:"id"`
	PreviousDate    time.Time `json:"previous_date" firestore:"previousDate"`
	PreviousEndTime time.Time `json:"previous_end_time" firestore:"previousEndTime"`
	RescheduledBy   string    `json:"rescheduled_by" firestore:"rescheduledBy"`
	Reason          string    `json:"reason,omitempty" firestore:"reason,omitempty"`
	RescheduledAt   time.Time `json:"rescheduled_at" firestore:"rescheduledAt"`
}

type Prescription struct {
	Medication string `json:"medication" firestore:"medication"`
	Dosage     string `json:"dosage,omitempty" firestore:"dosage,omitempty"`
	Duration   string `json:"duration,omitempty" firestore:"duration,omitempty"`
}

type ClinicalRecord struct {
	Diagnosis     string            `json:"diagnosis,omitempty" firestore:"diagnosis,omitempty"`
	Prescriptions []Prescription    `json:"prescriptions,omitempty" firestore:"prescriptions,omitempty"`
	Vitals        map[string]string `json:"vitals,omitempty" firestore:"vitals,omitempty"`
}

// Appointment is never hard-deleted; cancellation is a status transition.
type Appointment struct {
	ID         string `json:"id" firestore:"id"`
	CustomerID string `json:"customer_id" firestore:"customerId"`
	DoctorID   string `json:"doctor_id" firestore:"doctorId"`
	Type       string `json:"type" firestore:"type"` // "consultation", "follow_up", "checkup"

	ScheduledDate    time.Time         `json:"scheduled_date" firestore:"scheduledDate"`
	ScheduledEndTime time.Time         `json:"scheduled_end_time" firestore:"scheduledEndTime"`
	Status           AppointmentStatus `json:"status" firestore:"status"`

	ReasonForVisit string   `json:"reason_for_visit" firestore:"reasonForVisit"`
	Symptoms       []string `json:"symptoms,omitempty" firestore:"symptoms,omitempty"`
	Notes          string   `json:"notes,omitempty" firestore:"notes,omitempty"`

	Payment      Payment             `json:"payment" firestore:"payment"`
	Cancellation *CancellationRecord `json:"cancellation,omitempty" firestore:"cancellation,omitempty"`
	Reschedules  []RescheduleRecord  `json:"reschedules,omitempty" firestore:"reschedules,omitempty"`
	Clinical     ClinicalRecord      `json:"clinical" firestore:"clinical"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Blocking reports whether the appointment occupies its doctor's calendar
// slot for double-booking purposes.
func (a *Appointment) Blocking() bool {
	return a.Status == AppointmentPending || a.Status == AppointmentConfirmed || a.Status == AppointmentRescheduled
}

// Overlaps applies the interval-intersection test against [start, end).
// A slot starting exactly when this one ends (back-to-back) does not
// overlap.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return IntervalsOverlap(a.ScheduledDate, a.ScheduledEndTime, start, end)
}

// IntervalsOverlap checks two half-open intervals [aStart, aEnd) and
// [bStart, bEnd):
//
//	aStart <= bStart < aEnd, or
//	aStart < bEnd <= aEnd, or
//	bStart <= aStart && aEnd <= bEnd (b encloses a)
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aStart.After(bStart) && bStart.Before(aEnd) {
		return true
	}
	if aStart.Before(bEnd) && !bEnd.After(aEnd) {
		return true
	}
	if !bStart.After(aStart) && !aEnd.After(bEnd) {
		return true
	}
	return false
}
