package httpserver

import (
	"errors"
	"net/http"

	"restofront/internal/domain"
	"restofront/internal/gateway"

	"github.com/gin-gonic/gin"
)

// respondErr maps service errors onto HTTP statuses. Anything the error
// taxonomy does not name is treated as a local validation failure.
func respondErr(c *gin.Context, err error) {
	status := http.StatusBadRequest
	body := gin.H{"error": err.Error()}

	var backendErr *gateway.BackendError
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		status = http.StatusUnauthorized
		body["redirect"] = "login"
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRestaurantMismatch):
		status = http.StatusConflict
		body["requiresConfirmation"] = true
	case errors.Is(err, domain.ErrSubmissionInFlight),
		errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.As(err, &backendErr):
		status = http.StatusBadGateway
	case errors.Is(err, gateway.ErrConnectivity),
		errors.Is(err, gateway.ErrPaymentIntentTimeout):
		status = http.StatusGatewayTimeout
	}

	c.JSON(status, body)
}
