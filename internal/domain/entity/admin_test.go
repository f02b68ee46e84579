package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	admin := &CompanyAdmin{Permissions: []string{PermVerifyDoctors, PermModerateReviews}}

	assert.True(t, admin.HasPermission(PermVerifyDoctors))
	assert.False(t, admin.HasPermission(PermManageUsers))
}

func TestLogActivityEvictsOldest(t *testing.T) {
	admin := &CompanyAdmin{}

	for i := 0; i < activityLogLimit+3; i++ {
		admin.LogActivity(ActivityEntry{
			ID:         fmt.Sprintf("a-%d", i),
			Action:     "doctor.verification.verified",
			OccurredAt: time.Now(),
		})
	}

	assert.Len(t, admin.ActivityLog, activityLogLimit)
	assert.Equal(t, "a-3", admin.ActivityLog[0].ID)
}
