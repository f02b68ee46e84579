package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/websocket"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
)

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.User, int64, error) {
	var out []*entity.User
	for _, u := range r.users {
		if role, ok := filter["role"]; ok && u.Role != role.(string) {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*entity.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, errors.NotFound("Customer", nil)
	}
	return customer, nil
}

func (r *fakeCustomerRepo) GetByUserID(_ context.Context, userID string) (*entity.Customer, error) {
	for _, c := range r.customers {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, errors.NotFound("Customer", nil)
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	if _, ok := r.customers[customer.ID]; !ok {
		return errors.NotFound("Customer", nil)
	}
	r.customers[customer.ID] = customer
	return nil
}

type fakeDoctorRepo struct {
	doctors map[string]*entity.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: map[string]*entity.Doctor{}}
}

func (r *fakeDoctorRepo) Create(_ context.Context, doctor *entity.Doctor) error {
	if doctor.ID == "" {
		doctor.ID = uuid.New().String()
	}
	r.doctors[doctor.ID] = doctor
	return nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id string) (*entity.Doctor, error) {
	doctor, ok := r.doctors[id]
	if !ok {
		return nil, errors.NotFound("Doctor", nil)
	}
	return doctor, nil
}

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, userID string) (*entity.Doctor, error) {
	for _, d := range r.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, errors.NotFound("Doctor", nil)
}

func (r *fakeDoctorRepo) GetByLicenseNumber(_ context.Context, license string) (*entity.Doctor, error) {
	for _, d := range r.doctors {
		if d.LicenseNumber == license {
			return d, nil
		}
	}
	return nil, errors.NotFound("Doctor", nil)
}

func (r *fakeDoctorRepo) Update(_ context.Context, doctor *entity.Doctor) error {
	if _, ok := r.doctors[doctor.ID]; !ok {
		return errors.NotFound("Doctor", nil)
	}
	r.doctors[doctor.ID] = doctor
	return nil
}

func (r *fakeDoctorRepo) List(_ context.Context, filter map[string]interface{}, sortBy string, limit, offset int) ([]*entity.Doctor, int64, error) {
	var out []*entity.Doctor
	for _, d := range r.doctors {
		if status, ok := filter["verificationStatus"]; ok && d.VerificationStatus != status.(string) {
			continue
		}
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDoctorRepo) Search(ctx context.Context, query string, filter map[string]interface{}, limit, offset int) ([]*entity.Doctor, int64, error) {
	return r.List(ctx, filter, "", limit, offset)
}

func (r *fakeDoctorRepo) ListVerifiedBySpecialty(_ context.Context, specialtyID string) ([]*entity.Doctor, error) {
	var out []*entity.Doctor
	for _, d := range r.doctors {
		if !d.IsVerified() {
			continue
		}
		for _, sid := range d.SpecialtyIDs {
			if sid == specialtyID {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeDoctorRepo) IncrementCounter(_ context.Context, doctorID string, field repository.DoctorCounterField) error {
	doctor, ok := r.doctors[doctorID]
	if !ok {
		return errors.NotFound("Doctor", nil)
	}
	switch field {
	case repository.DoctorCounterTotal:
		doctor.Appointments.Total++
	case repository.DoctorCounterCompleted:
		doctor.Appointments.Completed++
	case repository.DoctorCounterCancelled:
		doctor.Appointments.Cancelled++
	}
	return nil
}

type fakeSpecialtyRepo struct {
	specialties map[string]*entity.Specialty
}

func newFakeSpecialtyRepo() *fakeSpecialtyRepo {
	return &fakeSpecialtyRepo{specialties: map[string]*entity.Specialty{}}
}

func (r *fakeSpecialtyRepo) Create(_ context.Context, specialty *entity.Specialty) error {
	if specialty.ID == "" {
		specialty.ID = uuid.New().String()
	}
	r.specialties[specialty.ID] = specialty
	return nil
}

func (r *fakeSpecialtyRepo) GetByID(_ context.Context, id string) (*entity.Specialty, error) {
	specialty, ok := r.specialties[id]
	if !ok {
		return nil, errors.NotFound("Specialty", nil)
	}
	return specialty, nil
}

func (r *fakeSpecialtyRepo) GetBySlug(_ context.Context, slug string) (*entity.Specialty, error) {
	for _, s := range r.specialties {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, errors.NotFound("Specialty", nil)
}

func (r *fakeSpecialtyRepo) Update(_ context.Context, specialty *entity.Specialty) error {
	if _, ok := r.specialties[specialty.ID]; !ok {
		return errors.NotFound("Specialty", nil)
	}
	r.specialties[specialty.ID] = specialty
	return nil
}

func (r *fakeSpecialtyRepo) List(_ context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Specialty, int64, error) {
	var out []*entity.Specialty
	for _, s := range r.specialties {
		if status, ok := filter["status"]; ok && s.Status != status.(string) {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSpecialtyRepo) ListChildren(_ context.Context, parentID string) ([]*entity.Specialty, error) {
	var out []*entity.Specialty
	for _, s := range r.specialties {
		if s.ParentID == parentID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	appointments map[string]*entity.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[string]*entity.Appointment{}}
}

func (r *fakeAppointmentRepo) slotTaken(appointment *entity.Appointment, excludeID string) bool {
	for _, existing := range r.appointments {
		if existing.ID == excludeID || existing.DoctorID != appointment.DoctorID {
			continue
		}
		if !existing.Blocking() {
			continue
		}
		if existing.Overlaps(appointment.ScheduledDate, appointment.ScheduledEndTime) {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) CreateIfFree(_ context.Context, appointment *entity.Appointment) error {
	if r.slotTaken(appointment, "") {
		return errors.Conflict("Doctor already has an appointment in this time slot", nil)
	}
	if appointment.ID == "" {
		appointment.ID = uuid.New().String()
	}
	r.appointments[appointment.ID] = appointment
	return nil
}

func (r *fakeAppointmentRepo) UpdateScheduleIfFree(_ context.Context, appointment *entity.Appointment) error {
	if r.slotTaken(appointment, appointment.ID) {
		return errors.Conflict("Doctor already has an appointment in this time slot", nil)
	}
	r.appointments[appointment.ID] = appointment
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*entity.Appointment, error) {
	appointment, ok := r.appointments[id]
	if !ok {
		return nil, errors.NotFound("Appointment", nil)
	}
	return appointment, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, appointment *entity.Appointment) error {
	if _, ok := r.appointments[appointment.ID]; !ok {
		return errors.NotFound("Appointment", nil)
	}
	r.appointments[appointment.ID] = appointment
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filter map[string]interface{}, sortBy string, limit, offset int) ([]*entity.Appointment, int64, error) {
	var out []*entity.Appointment
	for _, a := range r.appointments {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppointmentRepo) ListByCustomer(_ context.Context, customerID string, status entity.AppointmentStatus, limit, offset int) ([]*entity.Appointment, int64, error) {
	var out []*entity.Appointment
	for _, a := range r.appointments {
		if a.CustomerID != customerID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAppointmentRepo) ListByDoctor(_ context.Context, doctorID string, status entity.AppointmentStatus, limit, offset int) ([]*entity.Appointment, int64, error) {
	var out []*entity.Appointment
	for _, a := range r.appointments {
		if a.DoctorID != doctorID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

type fakeReviewRepo struct {
	reviews    map[string]*entity.Review
	doctorRepo *fakeDoctorRepo
}

func newFakeReviewRepo(doctorRepo *fakeDoctorRepo) *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:    map[string]*entity.Review{},
		doctorRepo: doctorRepo,
	}
}

func (r *fakeReviewRepo) CreateForAppointment(_ context.Context, review *entity.Review) error {
	if _, ok := r.reviews[review.AppointmentID]; ok {
		return errors.Conflict("Appointment already has a review", nil)
	}
	review.ID = review.AppointmentID
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) ApproveAndRecalcRating(_ context.Context, reviewID string) (*entity.Review, error) {
	review, ok := r.reviews[reviewID]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}

	if review.Status != entity.ReviewPending && review.Status != entity.ReviewFlagged {
		return nil, errors.Conflict("Only pending or flagged reviews can be approved", nil)
	}

	doctor, ok := r.doctorRepo.doctors[review.DoctorID]
	if !ok {
		return nil, errors.NotFound("Doctor", nil)
	}

	if !review.RatingCounted {
		oldSum := doctor.Ratings.Average * float64(doctor.Ratings.Count)
		doctor.Ratings.Count++
		doctor.Ratings.Average = (oldSum + float64(review.Rating)) / float64(doctor.Ratings.Count)
		review.RatingCounted = true
	}
	review.Status = entity.ReviewApproved

	return review, nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id string) (*entity.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	return review, nil
}

func (r *fakeReviewRepo) GetByAppointmentID(ctx context.Context, appointmentID string) (*entity.Review, error) {
	return r.GetByID(ctx, appointmentID)
}

func (r *fakeReviewRepo) Update(_ context.Context, review *entity.Review) error {
	if _, ok := r.reviews[review.ID]; !ok {
		return errors.NotFound("Review", nil)
	}
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) List(_ context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Review, int64, error) {
	var out []*entity.Review
	for _, rev := range r.reviews {
		if status, ok := filter["status"]; ok && rev.Status != status.(string) {
			continue
		}
		if doctorID, ok := filter["doctorId"]; ok && rev.DoctorID != doctorID.(string) {
			continue
		}
		if customerID, ok := filter["customerId"]; ok && rev.CustomerID != customerID.(string) {
			continue
		}
		out = append(out, rev)
	}
	return out, int64(len(out)), nil
}

type fakeAdminRepo struct {
	admins map[string]*entity.CompanyAdmin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*entity.CompanyAdmin{}}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *entity.CompanyAdmin) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	r.admins[admin.ID] = admin
	return nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*entity.CompanyAdmin, error) {
	admin, ok := r.admins[id]
	if !ok {
		return nil, errors.NotFound("Admin", nil)
	}
	return admin, nil
}

func (r *fakeAdminRepo) GetByUserID(_ context.Context, userID string) (*entity.CompanyAdmin, error) {
	for _, a := range r.admins {
		if a.UserID == userID {
			return a, nil
		}
	}
	return nil, errors.NotFound("Admin", nil)
}

func (r *fakeAdminRepo) Update(_ context.Context, admin *entity.CompanyAdmin) error {
	if _, ok := r.admins[admin.ID]; !ok {
		return errors.NotFound("Admin", nil)
	}
	r.admins[admin.ID] = admin
	return nil
}

func (r *fakeAdminRepo) List(_ context.Context, limit, offset int) ([]*entity.CompanyAdmin, int64, error) {
	var out []*entity.CompanyAdmin
	for _, a := range r.admins {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

type fakeIdentityClient struct {
	created  map[string]string
	disabled map[string]bool
	tokens   map[string]string
}

func newFakeIdentityClient() *fakeIdentityClient {
	return &fakeIdentityClient{
		created:  map[string]string{},
		disabled: map[string]bool{},
		tokens:   map[string]string{},
	}
}

func (f *fakeIdentityClient) CreateUser(_ context.Context, email, password, displayName string) (string, error) {
	uid := fmt.Sprintf("uid-%d", len(f.created)+1)
	f.created[email] = uid
	return uid, nil
}

func (f *fakeIdentityClient) VerifyToken(_ context.Context, token string) (string, error) {
	uid, ok := f.tokens[token]
	if !ok {
		return "", errors.Unauthorized("Invalid token", nil)
	}
	return uid, nil
}

func (f *fakeIdentityClient) DisableUser(_ context.Context, uid string) error {
	f.disabled[uid] = true
	return nil
}

func (f *fakeIdentityClient) SignInWithEmailPassword(email, password string) (string, error) {
	return "token-" + email, nil
}

type fakeNotifier struct {
	events map[string][]websocket.Event
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: map[string][]websocket.Event{}}
}

func (f *fakeNotifier) Notify(userID string, event websocket.Event) {
	f.events[userID] = append(f.events[userID], event)
}
