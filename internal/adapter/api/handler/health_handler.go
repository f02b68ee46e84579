package handler

import (
	"context"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"google.golang.org/api/iterator"
)

type HealthHandler struct {
	firestoreClient *firestore.Client
	queryTimeout    time.Duration
}

var healthHandler *HealthHandler

func NewHealthHandler(firestoreClient *firestore.Client, queryTimeout time.Duration) *HealthHandler {
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}
	return &HealthHandler{
		firestoreClient: firestoreClient,
		queryTimeout:    queryTimeout,
	}
}

func SetupHealthHandler(firestoreClient *firestore.Client, queryTimeout time.Duration) {
	healthHandler = NewHealthHandler(firestoreClient, queryTimeout)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// CheckStoreHealth probes the datastore under the configured query timeout
// so a hung connection fails the check instead of stalling the prober.
func (h *HealthHandler) CheckStoreHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.queryTimeout)
	defer cancel()

	iter := h.firestoreClient.Collections(ctx)
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status": "Datastore connection failed",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Datastore connected successfully",
	})
}
