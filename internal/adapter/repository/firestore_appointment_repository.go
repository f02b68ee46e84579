package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
)

type firestoreAppointmentRepository struct {
	client *firestore.Client
}

func NewFirestoreAppointmentRepository(client *firestore.Client) repository.AppointmentRepository {
	return &firestoreAppointmentRepository{
		client: client,
	}
}

// CreateIfFree runs the overlap check and the insert in one transaction so
// concurrent requests for the same slot cannot both commit.
func (r *firestoreAppointmentRepository) CreateIfFree(ctx context.Context, appointment *entity.Appointment) error {
	docRef := r.client.Collection("appointments").NewDoc()
	appointment.ID = docRef.ID

	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		conflict, err := r.slotTaken(ctx, tx, appointment.DoctorID, appointment.ScheduledDate, appointment.ScheduledEndTime, "")
		if err != nil {
			return err
		}
		if conflict {
			return errors.Conflict("Doctor already has an appointment in this time slot", nil)
		}
		return tx.Create(docRef, appointment)
	})

	if err != nil {
		if errors.Is(err, "CONFLICT") {
			return err
		}
		return errors.Internal("Failed to create appointment", err)
	}
	return nil
}

// UpdateScheduleIfFree persists a rescheduled or schedule-edited
// appointment, re-running the overlap check against the new interval and
// excluding the appointment itself.
func (r *firestoreAppointmentRepository) UpdateScheduleIfFree(ctx context.Context, appointment *entity.Appointment) error {
	appointment.UpdatedAt = time.Now()
	docRef := r.client.Collection("appointments").Doc(appointment.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		conflict, err := r.slotTaken(ctx, tx, appointment.DoctorID, appointment.ScheduledDate, appointment.ScheduledEndTime, appointment.ID)
		if err != nil {
			return err
		}
		if conflict {
			return errors.Conflict("Doctor already has an appointment in this time slot", nil)
		}
		return tx.Set(docRef, appointment)
	})

	if err != nil {
		if errors.Is(err, "CONFLICT") {
			return err
		}
		return errors.Internal("Failed to update appointment schedule", err)
	}
	return nil
}

// slotTaken queries the doctor's pending/confirmed appointments starting
// before the candidate end and applies the pairwise interval test. The
// query carries a single inequality (store restriction); the exact overlap
// clauses run in memory.
func (r *firestoreAppointmentRepository) slotTaken(ctx context.Context, tx *firestore.Transaction, doctorID string, start, end time.Time, excludeID string) (bool, error) {
	query := r.client.Collection("appointments").
		Where("doctorId", "==", doctorID).
		Where("status", "in", []string{
			string(entity.AppointmentPending),
			string(entity.AppointmentConfirmed),
			string(entity.AppointmentRescheduled),
		}).
		Where("scheduledDate", "<", end)

	docs, err := tx.Documents(query).GetAll()
	if err != nil {
		return false, err
	}

	for _, doc := range docs {
		var existing entity.Appointment
		if err := doc.DataTo(&existing); err != nil {
			return false, err
		}
		if existing.ID == excludeID {
			continue
		}
		if existing.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *firestoreAppointmentRepository) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	doc, err := r.client.Collection("appointments").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Appointment", err)
		}
		return nil, errors.Internal("Failed to get appointment", err)
	}

	var appointment entity.Appointment
	if err := doc.DataTo(&appointment); err != nil {
		return nil, errors.Internal("Failed to parse appointment data", err)
	}
	return &appointment, nil
}

func (r *firestoreAppointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	appointment.UpdatedAt = time.Now()

	_, err := r.client.Collection("appointments").Doc(appointment.ID).Set(ctx, appointment)
	if err != nil {
		return errors.Internal("Failed to update appointment", err)
	}
	return nil
}

func (r *firestoreAppointmentRepository) List(ctx context.Context, filter map[string]interface{}, sortBy string, limit, offset int) ([]*entity.Appointment, int64, error) {
	query := r.client.Collection("appointments").Query
	for key, value := range filter {
		query = query.Where(key, "==", value)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count appointments", err)
	}
	total := int64(len(allDocs))

	order := firestore.Desc
	field := "scheduledDate"
	if sortBy == "scheduled_asc" {
		order = firestore.Asc
	}
	query = query.OrderBy(field, order)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var appointments []*entity.Appointment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate appointments", err)
		}
		var appointment entity.Appointment
		if err := doc.DataTo(&appointment); err != nil {
			return nil, 0, errors.Internal("Failed to parse appointment data", err)
		}
		appointments = append(appointments, &appointment)
	}

	return appointments, total, nil
}

func (r *firestoreAppointmentRepository) ListByCustomer(ctx context.Context, customerID string, status entity.AppointmentStatus, limit, offset int) ([]*entity.Appointment, int64, error) {
	filter := map[string]interface{}{"customerId": customerID}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.List(ctx, filter, "", limit, offset)
}

func (r *firestoreAppointmentRepository) ListByDoctor(ctx context.Context, doctorID string, status entity.AppointmentStatus, limit, offset int) ([]*entity.Appointment, int64, error) {
	filter := map[string]interface{}{"doctorId": doctorID}
	if status != "" {
		filter["status"] = string(status)
	}
	return r.List(ctx, filter, "", limit, offset)
}
