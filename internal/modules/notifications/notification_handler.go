package notifications

import (
	"net/http"

	"freight-dispatch/internal/models"
	"freight-dispatch/pkg/utils"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Inbox lists the caller's notifications, today's first.
func (h *Handler) Inbox(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	page, limit := utils.GetPageLimit(c)

	filter := models.NotificationFilter{
		UserID:   userID,
		TripID:   c.QueryParam("trip"),
		Response: models.ResponseStatus(c.QueryParam("response")),
	}
	if role == models.RoleDriver {
		filter.NotifyTo = models.NotifyToDriver
	} else if role == models.RoleCustomer {
		filter.NotifyTo = models.NotifyToCustomer
	}

	list, err := h.service.Inbox(c.Request().Context(), filter, page, limit)
	if err != nil {
		c.Logger().Error("Handler.Inbox: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, list)
}
