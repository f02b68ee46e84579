package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundAmount(t *testing.T) {
	doctor := &Doctor{ConsultationFee: 200}

	tests := []struct {
		name        string
		hoursBefore float64
		want        float64
	}{
		{"three days ahead", 72, 200},
		{"exactly 48 hours", 48, 200},
		{"36 hours", 36, 100},
		{"exactly 24 hours", 24, 100},
		{"10 hours", 10, 0},
		{"after the start time", -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doctor.RefundAmount(tt.hoursBefore))
		})
	}
}

func TestYearsOfExperience(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 14, (&Doctor{PracticeStartYear: 2012}).YearsOfExperience(now))
	assert.Equal(t, 0, (&Doctor{}).YearsOfExperience(now))
	assert.Equal(t, 0, (&Doctor{PracticeStartYear: 2030}).YearsOfExperience(now))
}

func TestIsVerified(t *testing.T) {
	assert.True(t, (&Doctor{VerificationStatus: VerificationVerified}).IsVerified())
	assert.False(t, (&Doctor{VerificationStatus: VerificationPending}).IsVerified())
	assert.False(t, (&Doctor{VerificationStatus: VerificationSuspended}).IsVerified())
}
