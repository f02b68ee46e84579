package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/internal/domain/repository"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/logger"
	"github.com/Tzla1/medsearch-sub000/pkg/utils"
)

type ReviewUseCase struct {
	reviewRepo      repository.ReviewRepository
	appointmentRepo repository.AppointmentRepository
	customerRepo    repository.CustomerRepository
	doctorRepo      repository.DoctorRepository
	adminRepo       repository.AdminRepository
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	appointmentRepo repository.AppointmentRepository,
	customerRepo repository.CustomerRepository,
	doctorRepo repository.DoctorRepository,
	adminRepo repository.AdminRepository,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:      reviewRepo,
		appointmentRepo: appointmentRepo,
		customerRepo:    customerRepo,
		doctorRepo:      doctorRepo,
		adminRepo:       adminRepo,
	}
}

type CreateReviewInput struct {
	AppointmentID string
	Rating        int
	Aspects       entity.AspectRatings
	Comment       string
}

// Create files a review for one of the actor's own completed appointments.
// At most one review exists per appointment; a duplicate attempt fails with
// Conflict from the store. New reviews start pending moderation.
func (uc *ReviewUseCase) Create(ctx context.Context, actor *entity.User, input CreateReviewInput) (*entity.Review, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	appointment, err := uc.appointmentRepo.GetByID(ctx, input.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.CustomerID != customer.ID {
		return nil, errors.Forbidden("You can only review your own appointments", nil)
	}
	if appointment.Status != entity.AppointmentCompleted {
		return nil, errors.BadRequest("Only completed appointments can be reviewed", nil)
	}

	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	review := &entity.Review{
		AppointmentID: appointment.ID,
		CustomerID:    customer.ID,
		DoctorID:      appointment.DoctorID,
		Rating:        input.Rating,
		Aspects:       input.Aspects,
		Comment:       input.Comment,
		Status:        entity.ReviewPending,
	}

	if err := uc.reviewRepo.CreateForAppointment(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *ReviewUseCase) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	return uc.reviewRepo.GetByID(ctx, id)
}

// ListForDoctor returns the public feed: approved reviews only.
func (uc *ReviewUseCase) ListForDoctor(ctx context.Context, doctorID string, page, limit int) ([]*entity.Review, int64, error) {
	p := utils.NewPaginationParams(page, limit)
	filter := map[string]interface{}{
		"doctorId": doctorID,
		"status":   entity.ReviewApproved,
	}
	return uc.reviewRepo.List(ctx, filter, p.PageSize, p.Offset)
}

func (uc *ReviewUseCase) ListForCustomer(ctx context.Context, actor *entity.User, page, limit int) ([]*entity.Review, int64, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, 0, err
	}

	p := utils.NewPaginationParams(page, limit)
	filter := map[string]interface{}{
		"customerId": customer.ID,
	}
	return uc.reviewRepo.List(ctx, filter, p.PageSize, p.Offset)
}

// ModerationQueue lists reviews awaiting a moderator: pending and flagged.
func (uc *ReviewUseCase) ModerationQueue(ctx context.Context, actor *entity.User, status string, page, limit int) ([]*entity.Review, int64, error) {
	if err := uc.requirePermission(ctx, actor, entity.PermModerateReviews); err != nil {
		return nil, 0, err
	}

	if status == "" {
		status = entity.ReviewPending
	}
	switch status {
	case entity.ReviewPending, entity.ReviewFlagged, entity.ReviewRejected, entity.ReviewApproved:
	default:
		return nil, 0, errors.BadRequest("Invalid review status: "+status, nil)
	}

	p := utils.NewPaginationParams(page, limit)
	filter := map[string]interface{}{"status": status}
	return uc.reviewRepo.List(ctx, filter, p.PageSize, p.Offset)
}

// Approve publishes a pending or flagged review and folds its rating into
// the doctor's running average atomically. A review re-approved after flag
// resolution keeps its place in the average rather than counting twice.
func (uc *ReviewUseCase) Approve(ctx context.Context, actor *entity.User, reviewID, notes string) (*entity.Review, error) {
	if err := uc.requirePermission(ctx, actor, entity.PermModerateReviews); err != nil {
		return nil, err
	}

	review, err := uc.reviewRepo.ApproveAndRecalcRating(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if notes != "" {
		review.ModerationNotes = notes
		if err := uc.reviewRepo.Update(ctx, review); err != nil {
			logger.Warn("Failed to persist moderation notes for review %s: %v", reviewID, err)
		}
	}

	uc.logAdminActivity(ctx, actor, "review.approved", reviewID, notes)

	return review, nil
}

// Reject keeps a pending review out of the public feed. Rejection requires
// moderation notes and never touches the doctor's rating aggregate; a review
// whose rating is already folded in cannot be rejected, only re-approved.
func (uc *ReviewUseCase) Reject(ctx context.Context, actor *entity.User, reviewID, notes string) (*entity.Review, error) {
	if err := uc.requirePermission(ctx, actor, entity.PermModerateReviews); err != nil {
		return nil, err
	}

	if notes == "" {
		return nil, errors.BadRequest("Moderation notes are required to reject a review", nil)
	}

	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.Status != entity.ReviewPending {
		return nil, errors.Conflict("Only pending reviews can be rejected", nil)
	}

	review.Status = entity.ReviewRejected
	review.ModerationNotes = notes
	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	uc.logAdminActivity(ctx, actor, "review.rejected", reviewID, notes)

	return review, nil
}

// Flag reports an approved review for re-moderation. Each user may flag a
// given review once; only approved reviews can be flagged.
func (uc *ReviewUseCase) Flag(ctx context.Context, actor *entity.User, reviewID, reason string) (*entity.Review, error) {
	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.Status != entity.ReviewApproved {
		return nil, errors.BadRequest("Only approved reviews can be flagged", nil)
	}
	if review.FlaggedBy(actor.ID) {
		return nil, errors.Conflict("You have already flagged this review", nil)
	}

	review.Flags = append(review.Flags, entity.ReviewFlag{
		ID:        uuid.New().String(),
		FlaggedBy: actor.ID,
		Reason:    reason,
		FlaggedAt: time.Now(),
	})
	review.Status = entity.ReviewFlagged

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Vote marks the review helpful or not. The two vote sets are exclusive; a
// repeat vote of the same kind is a no-op, a switched vote moves the user
// across sets.
func (uc *ReviewUseCase) Vote(ctx context.Context, actor *entity.User, reviewID string, helpful bool) (*entity.Review, error) {
	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.Status != entity.ReviewApproved {
		return nil, errors.BadRequest("Only approved reviews can be voted on", nil)
	}

	if !review.Vote(actor.ID, helpful) {
		return review, nil
	}

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Respond attaches the reviewed doctor's single public reply.
func (uc *ReviewUseCase) Respond(ctx context.Context, actor *entity.User, reviewID, comment string) (*entity.Review, error) {
	doctor, err := uc.doctorRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.DoctorID != doctor.ID {
		return nil, errors.Forbidden("You can only respond to reviews about you", nil)
	}
	if review.Status != entity.ReviewApproved {
		return nil, errors.BadRequest("Only approved reviews can be responded to", nil)
	}
	if review.Response != nil {
		return nil, errors.Conflict("Review already has a response", nil)
	}

	review.Response = &entity.DoctorResponse{
		Comment:     comment,
		RespondedAt: time.Now(),
	}

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Edit lets the owning customer revise the comment while the review is
// still editable: not yet approved and within 24 hours of filing. The
// previous comment is preserved in the edit history.
func (uc *ReviewUseCase) Edit(ctx context.Context, actor *entity.User, reviewID, comment string) (*entity.Review, error) {
	customer, err := uc.customerRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	review, err := uc.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.CustomerID != customer.ID {
		return nil, errors.Forbidden("You can only edit your own reviews", nil)
	}
	if !review.Editable(time.Now()) {
		return nil, errors.BadRequest("Review can no longer be edited", nil)
	}

	review.EditHistory = append(review.EditHistory, entity.ReviewEdit{
		PreviousComment: review.Comment,
		EditedAt:        time.Now(),
	})
	review.Comment = comment

	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *ReviewUseCase) requirePermission(ctx context.Context, actor *entity.User, perm string) error {
	if actor.Role == entity.RoleSuperAdmin {
		return nil
	}
	if actor.Role != entity.RoleCompanyAdmin {
		return errors.Forbidden("Admin access required", nil)
	}

	admin, err := uc.adminRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		return errors.Forbidden("Admin profile not found", err)
	}
	if !admin.HasPermission(perm) {
		return errors.Forbidden("Missing permission: "+perm, nil)
	}
	return nil
}

func (uc *ReviewUseCase) logAdminActivity(ctx context.Context, actor *entity.User, action, resourceID, detail string) {
	if actor.Role != entity.RoleCompanyAdmin {
		return
	}

	admin, err := uc.adminRepo.GetByUserID(ctx, actor.ID)
	if err != nil {
		logger.Warn("Failed to load admin profile for activity log: %v", err)
		return
	}

	admin.LogActivity(entity.ActivityEntry{
		ID:         uuid.New().String(),
		Action:     action,
		ResourceID: resourceID,
		Detail:     detail,
		OccurredAt: time.Now(),
	})

	if err := uc.adminRepo.Update(ctx, admin); err != nil {
		logger.Warn("Failed to persist admin activity log: %v", err)
	}
}
