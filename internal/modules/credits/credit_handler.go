package credits

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

func (h *Handler) Add(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateCreditRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	credit, err := h.service.Add(c.Request().Context(), userID, req)
	if err != nil {
		c.Logger().Error("Handler.AddCredit: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, credit)
}

func (h *Handler) List(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	page, limit := utils.GetPageLimit(c)

	list, err := h.service.List(c.Request().Context(), userID, page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListCredits: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, list)
}

func (h *Handler) Delete(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	creditID, err := utils.GetUUIDParam(c, "id")
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	if err := h.service.Delete(c.Request().Context(), userID, creditID); err != nil {
		c.Logger().Error("Handler.DeleteCredit: ", err)
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
