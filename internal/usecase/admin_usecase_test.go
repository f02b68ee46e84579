package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tzla1/medsearch-sub000/internal/domain/entity"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
)

type adminFixture struct {
	uc        *AdminUseCase
	superUser *entity.User
	users     *fakeUserRepo
	admins    *fakeAdminRepo
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	users := newFakeUserRepo()
	admins := newFakeAdminRepo()

	superUser := &entity.User{ID: "u-super", Role: entity.RoleSuperAdmin, Active: true}
	users.users[superUser.ID] = superUser

	return &adminFixture{
		uc:        NewAdminUseCase(admins, users),
		superUser: superUser,
		users:     users,
		admins:    admins,
	}
}

func (f *adminFixture) createAdmin(t *testing.T, userID string) *entity.CompanyAdmin {
	t.Helper()
	ctx := context.Background()

	f.users.users[userID] = &entity.User{ID: userID, Role: entity.RoleCompanyAdmin, Active: true}
	admin, err := f.uc.Create(ctx, f.superUser, CreateAdminInput{
		UserID:      userID,
		FullName:    "Admin " + userID,
		Permissions: []string{entity.PermModerateReviews},
	})
	require.NoError(t, err)
	return admin
}

func TestCreateAdmin(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	f.users.users["u-1"] = &entity.User{ID: "u-1", Role: entity.RoleCustomer, Active: true}

	admin, err := f.uc.Create(ctx, f.superUser, CreateAdminInput{
		UserID:      "u-1",
		FullName:    "New Admin",
		Permissions: []string{entity.PermVerifyDoctors},
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", admin.UserID)
	assert.Equal(t, entity.RoleCompanyAdmin, f.users.users["u-1"].Role)

	// duplicate profile
	_, err = f.uc.Create(ctx, f.superUser, CreateAdminInput{
		UserID: "u-1", FullName: "Again", Permissions: nil,
	})
	assert.True(t, errors.Is(err, "CONFLICT"))

	// unknown permission
	f.users.users["u-2"] = &entity.User{ID: "u-2", Role: entity.RoleCustomer, Active: true}
	_, err = f.uc.Create(ctx, f.superUser, CreateAdminInput{
		UserID: "u-2", FullName: "Bad Perms", Permissions: []string{"rule_the_world"},
	})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	// non super admin
	companyUser := &entity.User{ID: "u-ca", Role: entity.RoleCompanyAdmin, Active: true}
	_, err = f.uc.Create(ctx, companyUser, CreateAdminInput{UserID: "u-2", FullName: "x"})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestAssignSupervisor(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	a := f.createAdmin(t, "u-a")
	b := f.createAdmin(t, "u-b")

	updated, err := f.uc.AssignSupervisor(ctx, f.superUser, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.SupervisorID)
	assert.Contains(t, f.admins.admins[a.ID].Subordinates, b.ID)

	// reassignment detaches from the previous supervisor
	c := f.createAdmin(t, "u-c")
	_, err = f.uc.AssignSupervisor(ctx, f.superUser, b.ID, c.ID)
	require.NoError(t, err)
	assert.NotContains(t, f.admins.admins[a.ID].Subordinates, b.ID)
	assert.Contains(t, f.admins.admins[c.ID].Subordinates, b.ID)
}

func TestAssignSupervisorRejectsCycles(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	a := f.createAdmin(t, "u-a")
	b := f.createAdmin(t, "u-b")
	c := f.createAdmin(t, "u-c")

	// chain: c reports to b, b reports to a
	_, err := f.uc.AssignSupervisor(ctx, f.superUser, b.ID, a.ID)
	require.NoError(t, err)
	_, err = f.uc.AssignSupervisor(ctx, f.superUser, c.ID, b.ID)
	require.NoError(t, err)

	// a reporting to c would close the loop
	_, err = f.uc.AssignSupervisor(ctx, f.superUser, a.ID, c.ID)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	// self supervision
	_, err = f.uc.AssignSupervisor(ctx, f.superUser, a.ID, a.ID)
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}

func TestSetPermissions(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	a := f.createAdmin(t, "u-a")

	updated, err := f.uc.SetPermissions(ctx, f.superUser, a.ID, []string{
		entity.PermManageUsers, entity.PermManageTaxonomy,
	})
	require.NoError(t, err)
	assert.True(t, updated.HasPermission(entity.PermManageTaxonomy))
	assert.False(t, updated.HasPermission(entity.PermModerateReviews))

	_, err = f.uc.SetPermissions(ctx, f.superUser, a.ID, []string{"bogus"})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))
}
