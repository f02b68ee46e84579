package entity

import (
	"time"
)

// searchHistoryLimit bounds the per-customer search log; the oldest entry
// is evicted once the cap is reached.
const searchHistoryLimit = 50

type SearchEntry struct {
	Query      string    `json:"query" firestore:"query"`
	Filters    string    `json:"filters,omitempty" firestore:"filters,omitempty"`
	SearchedAt time.Time `json:"searched_at" firestore:"searchedAt"`
}

type Customer struct {
	ID       string `json:"id" firestore:"id"`
	UserID   string `json:"user_id" firestore:"userId"`
	FullName string `json:"full_name" firestore:"fullName"`
	Phone    string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Gender   string `json:"gender,omitempty" firestore:"gender,omitempty"`

	DateOfBirth time.Time `json:"date_of_birth,omitempty" firestore:"dateOfBirth,omitempty"`
	City        string    `json:"city,omitempty" firestore:"city,omitempty"`
	State       string    `json:"state,omitempty" firestore:"state,omitempty"`
	Address     string    `json:"address,omitempty" firestore:"address,omitempty"`

	Allergies   []string `json:"allergies,omitempty" firestore:"allergies,omitempty"`
	Conditions  []string `json:"conditions,omitempty" firestore:"conditions,omitempty"`
	Medications []string `json:"medications,omitempty" firestore:"medications,omitempty"`

	FavoriteDoctors []string      `json:"favorite_doctors" firestore:"favoriteDoctors"`
	SearchHistory   []SearchEntry `json:"search_history,omitempty" firestore:"searchHistory,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// RecordSearch appends a search entry, evicting the oldest once the history
// reaches its cap.
func (c *Customer) RecordSearch(entry SearchEntry) {
	c.SearchHistory = append(c.SearchHistory, entry)
	if len(c.SearchHistory) > searchHistoryLimit {
		c.SearchHistory = c.SearchHistory[len(c.SearchHistory)-searchHistoryLimit:]
	}
}

// AddFavorite returns false if the doctor is already a favorite.
func (c *Customer) AddFavorite(doctorID string) bool {
	for _, id := range c.FavoriteDoctors {
		if id == doctorID {
			return false
		}
	}
	c.FavoriteDoctors = append(c.FavoriteDoctors, doctorID)
	return true
}

// RemoveFavorite returns false if the doctor was not a favorite.
func (c *Customer) RemoveFavorite(doctorID string) bool {
	for i, id := range c.FavoriteDoctors {
		if id == doctorID {
			c.FavoriteDoctors = append(c.FavoriteDoctors[:i], c.FavoriteDoctors[i+1:]...)
			return true
		}
	}
	return false
}
