package entity

import (
	"time"
)

type SpecialtyStats struct {
	DoctorCount   int       `json:"doctor_count" firestore:"doctorCount"`
	AverageRating float64   `json:"average_rating" firestore:"averageRating"`
	RefreshedAt   time.Time `json:"refreshed_at,omitempty" firestore:"refreshedAt,omitempty"`
}

// Specialty is a taxonomy node; ParentID is empty for top-level entries.
// Stats are cached and recomputed on demand, not transactionally.
type Specialty struct {
	ID          string `json:"id" firestore:"id"`
	Name        string `json:"name" firestore:"name"`
	Slug        string `json:"slug" firestore:"slug"`
	Description string `json:"description,omitempty" firestore:"description,omitempty"`
	ParentID    string `json:"parent_id,omitempty" firestore:"parentId,omitempty"`
	Status      string `json:"status" firestore:"status"` // "active" or "archived"

	Stats SpecialtyStats `json:"stats" firestore:"stats"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
