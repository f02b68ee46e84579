package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Cardiology", "cardiology"},
		{"  Pediatric Cardiology  ", "pediatric-cardiology"},
		{"Ear, Nose & Throat", "ear-nose-throat"},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GenerateSlug(tc.name))
	}
}

func TestCreateSpecialty(t *testing.T) {
	specialties := newFakeSpecialtyRepo()
	uc := NewSpecialtyUseCase(specialties, newFakeDoctorRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, CreateSpecialtyInput{Name: "Cardiology"})
	require.NoError(t, err)
	assert.Equal(t, "cardiology", created.Slug)
	assert.Equal(t, "active", created.Status)

	// slugs collide even when the display names differ
	_, err = uc.Create(ctx, CreateSpecialtyInput{Name: "  CARDIOLOGY "})
	assert.True(t, errors.Is(err, "CONFLICT"))

	_, err = uc.Create(ctx, CreateSpecialtyInput{Name: "!!!"})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestSpecialtyNestingDepth(t *testing.T) {
	specialties := newFakeSpecialtyRepo()
	uc := NewSpecialtyUseCase(specialties, newFakeDoctorRepo())
	ctx := context.Background()

	root, err := uc.Create(ctx, CreateSpecialtyInput{Name: "Cardiology"})
	require.NoError(t, err)

	child, err := uc.Create(ctx, CreateSpecialtyInput{Name: "Pediatric Cardiology", ParentID: root.ID})
	require.NoError(t, err)

	// grandchildren are not allowed
	_, err = uc.Create(ctx, CreateSpecialtyInput{Name: "Neonatal Cardiology", ParentID: child.ID})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = uc.Create(ctx, CreateSpecialtyInput{Name: "Orphan", ParentID: "missing"})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	children, err := uc.ListChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)
}

func TestUpdateSpecialtyRename(t *testing.T) {
	specialties := newFakeSpecialtyRepo()
	uc := NewSpecialtyUseCase(specialties, newFakeDoctorRepo())
	ctx := context.Background()

	first, err := uc.Create(ctx, CreateSpecialtyInput{Name: "Cardiology"})
	require.NoError(t, err)
	second, err := uc.Create(ctx, CreateSpecialtyInput{Name: "Dermatology"})
	require.NoError(t, err)

	name := "Clinical Dermatology"
	updated, err := uc.Update(ctx, second.ID, UpdateSpecialtyInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "clinical-dermatology", updated.Slug)

	// renaming onto an existing slug is rejected
	taken := "Cardiology"
	_, err = uc.Update(ctx, second.ID, UpdateSpecialtyInput{Name: &taken})
	assert.True(t, errors.Is(err, "CONFLICT"))

	// re-saving the same name keeps the slug without a conflict
	same := "Clinical Dermatology"
	_, err = uc.Update(ctx, second.ID, UpdateSpecialtyInput{Name: &same})
	require.NoError(t, err)

	bad := "deprecated"
	_, err = uc.Update(ctx, first.ID, UpdateSpecialtyInput{Status: &bad})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestArchiveSpecialty(t *testing.T) {
	specialties := newFakeSpecialtyRepo()
	uc := NewSpecialtyUseCase(specialties, newFakeDoctorRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, CreateSpecialtyInput{Name: "Cardiology"})
	require.NoError(t, err)

	archived, err := uc.Archive(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "archived", archived.Status)

	// archived nodes drop out of the default listing but stay fetchable
	active, _, err := uc.List(ctx, false, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, _, err := uc.List(ctx, true, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "archived", got.Status)
}

func TestRefreshStats(t *testing.T) {
	specialties := newFakeSpecialtyRepo()
	doctors := newFakeDoctorRepo()
	uc := NewSpecialtyUseCase(specialties, doctors)
	ctx := context.Background()

	specialty, err := uc.Create(ctx, CreateSpecialtyInput{Name: "Cardiology"})
	require.NoError(t, err)

	add := func(id, status string, avg float64, count int) {
		doctors.doctors[id] = &entity.Doctor{
			ID:                 id,
			VerificationStatus: status,
			SpecialtyIDs:       []string{specialty.ID},
			Ratings:            entity.RatingAggregate{Average: avg, Count: count},
		}
	}
	add("d-1", entity.VerificationVerified, 4.0, 10)
	add("d-2", entity.VerificationVerified, 5.0, 2)
	add("d-3", entity.VerificationVerified, 0, 0) // unrated, excluded from the average
	add("d-4", entity.VerificationPending, 3.0, 4)

	refreshed, err := uc.RefreshStats(ctx, specialty.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, refreshed.Stats.DoctorCount)
	assert.InDelta(t, 4.5, refreshed.Stats.AverageRating, 0.001)
	assert.False(t, refreshed.Stats.RefreshedAt.IsZero())
}
