package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
)

type appointmentFixture struct {
	uc           *AppointmentUseCase
	customerUser *entity.User
	doctorUser   *entity.User
	customer     *entity.Customer
	doctor       *entity.Doctor
	appointments *fakeAppointmentRepo
	doctors      *fakeDoctorRepo
	notifier     *fakeNotifier
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	ctx := context.Background()

	customers := newFakeCustomerRepo()
	doctors := newFakeDoctorRepo()
	specialties := newFakeSpecialtyRepo()
	appointments := newFakeAppointmentRepo()
	notifier := newFakeNotifier()

	customerUser := &entity.User{ID: "u-cust", Role: entity.RoleCustomer, Active: true}
	doctorUser := &entity.User{ID: "u-doc", Role: entity.RoleDoctor, Active: true}

	customer := &entity.Customer{UserID: "u-cust", FullName: "Pat Doe"}
	require.NoError(t, customers.Create(ctx, customer))

	doctor := &entity.Doctor{
		UserID:             "u-doc",
		FullName:           "Dr. Gray",
		ConsultationFee:    200,
		VerificationStatus: entity.VerificationVerified,
	}
	require.NoError(t, doctors.Create(ctx, doctor))

	uc := NewAppointmentUseCase(appointments, doctors, customers, specialties, notifier)

	return &appointmentFixture{
		uc:           uc,
		customerUser: customerUser,
		doctorUser:   doctorUser,
		customer:     customer,
		doctor:       doctor,
		appointments: appointments,
		doctors:      doctors,
		notifier:     notifier,
	}
}

func futureSlot(daysAhead, hour int) (time.Time, time.Time) {
	start := time.Now().AddDate(0, 0, daysAhead).Truncate(time.Hour)
	start = time.Date(start.Year(), start.Month(), start.Day(), hour, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

func TestBookAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	start, end := futureSlot(7, 10)

	detail, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    start,
		ScheduledEndTime: end,
		ReasonForVisit:   "annual checkup",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.AppointmentPending, detail.Status)
	assert.Equal(t, f.customer.ID, detail.CustomerID)
	assert.Equal(t, 200.0, detail.Payment.Amount)
	assert.Equal(t, "pending", detail.Payment.Status)
	assert.Equal(t, "Dr. Gray", detail.DoctorName)
	assert.Equal(t, 1, f.doctor.Appointments.Total)

	// both parties get a push event
	assert.Len(t, f.notifier.events["u-cust"], 1)
	assert.Len(t, f.notifier.events["u-doc"], 1)
	assert.Equal(t, "appointment.booked", f.notifier.events["u-doc"][0].Type)
}

func TestBookAppointmentConflicts(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	start, end := futureSlot(7, 10)

	_, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    start,
		ScheduledEndTime: end,
		ReasonForVisit:   "first",
	})
	require.NoError(t, err)

	// overlapping slot is rejected
	_, err = f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    start.Add(30 * time.Minute),
		ScheduledEndTime: end.Add(30 * time.Minute),
		ReasonForVisit:   "second",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))

	// back-to-back slot is fine
	_, err = f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    end,
		ScheduledEndTime: end.Add(time.Hour),
		ReasonForVisit:   "third",
	})
	assert.NoError(t, err)
}

func TestBookAppointmentValidation(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	// past start
	past := time.Now().Add(-time.Hour)
	_, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		ScheduledDate:    past,
		ScheduledEndTime: past.Add(time.Hour),
	})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	// unverified doctor
	f.doctor.VerificationStatus = entity.VerificationPending
	start, end := futureSlot(7, 10)
	_, err = f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		ScheduledDate:    start,
		ScheduledEndTime: end,
	})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestCancelAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	start, end := futureSlot(7, 10) // a week out, full refund tier

	detail, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    start,
		ScheduledEndTime: end,
		ReasonForVisit:   "checkup",
	})
	require.NoError(t, err)

	appt := f.appointments.appointments[detail.ID]
	appt.Status = entity.AppointmentConfirmed
	appt.Payment.Status = entity.PaymentPaid

	cancelled, err := f.uc.Cancel(ctx, f.customerUser, detail.ID, "schedule change")
	require.NoError(t, err)

	assert.Equal(t, entity.AppointmentCancelled, cancelled.Status)
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, f.customerUser.ID, cancelled.Cancellation.CancelledBy)
	assert.Equal(t, 200.0, cancelled.Cancellation.RefundAmount)
	assert.Equal(t, entity.PaymentRefunded, cancelled.Payment.Status)
	assert.Equal(t, 1, f.doctor.Appointments.Cancelled)

	// cancelling again is rejected
	_, err = f.uc.Cancel(ctx, f.customerUser, detail.ID, "again")
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestCustomerCannotCancelPending(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	start, end := futureSlot(7, 10)

	detail, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    start,
		ScheduledEndTime: end,
		ReasonForVisit:   "checkup",
	})
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, f.customerUser, detail.ID, "changed my mind")
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// the doctor may cancel at any eligible status
	_, err = f.uc.Cancel(ctx, f.doctorUser, detail.ID, "unavailable")
	assert.NoError(t, err)
}

func TestCancelRefundTiers(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	// 36 hours ahead lands in the half-refund tier
	start := time.Now().Add(36 * time.Hour)
	detail, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    start,
		ScheduledEndTime: start.Add(time.Hour),
		ReasonForVisit:   "checkup",
	})
	require.NoError(t, err)
	f.appointments.appointments[detail.ID].Status = entity.AppointmentConfirmed

	cancelled, err := f.uc.Cancel(ctx, f.customerUser, detail.ID, "conflict")
	require.NoError(t, err)
	assert.Equal(t, 100.0, cancelled.Cancellation.RefundAmount)
}

func TestUpdateFieldWhitelist(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	start, end := futureSlot(7, 10)

	detail, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    start,
		ScheduledEndTime: end,
		ReasonForVisit:   "checkup",
	})
	require.NoError(t, err)

	// a customer cannot push clinical fields or status; they are dropped
	diagnosis := "self-diagnosed"
	status := string(entity.AppointmentCompleted)
	notes := "please call before"
	updated, err := f.uc.Update(ctx, f.customerUser, detail.ID, UpdateAppointmentInput{
		Status:    &status,
		Diagnosis: &diagnosis,
		Notes:     &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentPending, updated.Status)
	assert.Empty(t, updated.Clinical.Diagnosis)
	assert.Equal(t, "please call before", updated.Notes)

	// the doctor can complete and attach a diagnosis
	realDiagnosis := "seasonal allergies"
	updated, err = f.uc.Update(ctx, f.doctorUser, detail.ID, UpdateAppointmentInput{
		Status:    &status,
		Diagnosis: &realDiagnosis,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentCompleted, updated.Status)
	assert.Equal(t, "seasonal allergies", updated.Clinical.Diagnosis)
	assert.Equal(t, 1, f.doctor.Appointments.Completed)
}

func TestUpdateRequiresParticipant(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	start, end := futureSlot(7, 10)

	detail, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    start,
		ScheduledEndTime: end,
		ReasonForVisit:   "checkup",
	})
	require.NoError(t, err)

	stranger := &entity.User{ID: "u-other", Role: entity.RoleCustomer, Active: true}
	notes := "hi"
	_, err = f.uc.Update(ctx, stranger, detail.ID, UpdateAppointmentInput{Notes: &notes})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestReschedule(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	start, end := futureSlot(7, 10)

	detail, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID:         f.doctor.ID,
		Type:             "consultation",
		ScheduledDate:    start,
		ScheduledEndTime: end,
		ReasonForVisit:   "checkup",
	})
	require.NoError(t, err)
	f.appointments.appointments[detail.ID].Status = entity.AppointmentConfirmed

	newStart, newEnd := futureSlot(8, 14)
	moved, err := f.uc.Reschedule(ctx, f.customerUser, detail.ID, RescheduleInput{
		ScheduledDate:    newStart,
		ScheduledEndTime: newEnd,
		Reason:           "work conflict",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.AppointmentRescheduled, moved.Status)
	assert.Equal(t, newStart, moved.ScheduledDate)
	require.Len(t, moved.Reschedules, 1)
	assert.Equal(t, start, moved.Reschedules[0].PreviousDate)
	assert.Equal(t, f.customerUser.ID, moved.Reschedules[0].RescheduledBy)
}

func TestRescheduleIntoTakenSlot(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	startA, endA := futureSlot(7, 10)
	a, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID: f.doctor.ID, Type: "consultation",
		ScheduledDate: startA, ScheduledEndTime: endA, ReasonForVisit: "a",
	})
	require.NoError(t, err)

	startB, endB := futureSlot(7, 14)
	_, err = f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
		DoctorID: f.doctor.ID, Type: "consultation",
		ScheduledDate: startB, ScheduledEndTime: endB, ReasonForVisit: "b",
	})
	require.NoError(t, err)

	f.appointments.appointments[a.ID].Status = entity.AppointmentConfirmed
	_, err = f.uc.Reschedule(ctx, f.customerUser, a.ID, RescheduleInput{
		ScheduledDate:    startB.Add(30 * time.Minute),
		ScheduledEndTime: endB.Add(30 * time.Minute),
	})
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestHistoryForCustomer(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	statuses := []entity.AppointmentStatus{
		entity.AppointmentPending,
		entity.AppointmentCompleted,
		entity.AppointmentCancelled,
		entity.AppointmentNoShow,
	}
	for i, s := range statuses {
		start, end := futureSlot(10+i, 9)
		detail, err := f.uc.Book(ctx, f.customerUser, BookAppointmentInput{
			DoctorID: f.doctor.ID, Type: "consultation",
			ScheduledDate: start, ScheduledEndTime: end, ReasonForVisit: "x",
		})
		require.NoError(t, err)
		f.appointments.appointments[detail.ID].Status = s
	}

	history, total, err := f.uc.HistoryForCustomer(ctx, f.customerUser, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, history, 3)
	for _, a := range history {
		assert.NotEqual(t, entity.AppointmentPending, a.Status)
	}
}
