package utils

import (
	"errors"
	"net/http"
	"strconv"

	"freight-dispatch/internal/models"

	"github.com/labstack/echo/v4"
)

// RespondWithJSON writes a success envelope.
func RespondWithJSON(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, payload)
}

// RespondWithError writes the generic error envelope.
func RespondWithError(c echo.Context, status int, message string) error {
	return c.JSON(status, models.ErrorResponse{Message: message})
}

// HandleServiceError maps service-layer sentinel errors onto HTTP statuses.
// Unknown errors are surfaced as opaque 500s; the caller is expected to have
// logged the detail already.
func HandleServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrTripNotCancelled),
		errors.Is(err, models.ErrCreditNotOwned):
		return RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrValidation):
		return RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrAlreadyBookedSameDay),
		errors.Is(err, models.ErrTripNotSearching),
		errors.Is(err, models.ErrDuplicateMaterial),
		errors.Is(err, models.ErrDuplicateUser):
		return RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		return RespondWithError(c, http.StatusUnauthorized, err.Error())
	default:
		return RespondWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// ExtractUserInfo pulls the authenticated user's ID and role out of the
// request context, where the JWT middleware placed them.
func ExtractUserInfo(c echo.Context) (string, models.Role, error) {
	userID, ok := c.Get("userID").(string)
	if !ok || userID == "" {
		return "", "", RespondWithError(c, http.StatusUnauthorized, "Missing authentication context")
	}
	role, _ := c.Get("userRole").(models.Role)
	return userID, role, nil
}

// GetPageLimit reads pagination query params with sane defaults.
func GetPageLimit(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
