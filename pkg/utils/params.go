package utils

import (
	"fmt"

	"freight-dispatch/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GetUUIDParam reads a path parameter and rejects anything that is not a
// valid UUID before it reaches a query.
func GetUUIDParam(c echo.Context, name string) (string, error) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %s must be a valid id", models.ErrValidation, name)
	}
	return id, nil
}
