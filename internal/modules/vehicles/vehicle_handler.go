package vehicles

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

// CreateType registers a new truck class on the rate card. Admin only.
func (h *Handler) CreateType(c echo.Context) error {
	var req models.CreateVehicleTypeRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	vt, err := h.service.CreateType(c.Request().Context(), req)
	if err != nil {
		c.Logger().Error("Handler.CreateType: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, vt)
}

func (h *Handler) GetType(c echo.Context) error {
	vt, err := h.service.GetType(c.Request().Context(), c.Param("id"))
	if err != nil {
		c.Logger().Error("Handler.GetType: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, vt)
}

func (h *Handler) ListTypes(c echo.Context) error {
	types, err := h.service.ListTypes(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListTypes: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, types)
}

func (h *Handler) UpdateType(c echo.Context) error {
	var req models.UpdateVehicleTypeRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	vt, err := h.service.UpdateType(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		c.Logger().Error("Handler.UpdateType: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, vt)
}

func (h *Handler) AddVehicle(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateVehicleRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	v, err := h.service.AddVehicle(c.Request().Context(), userID, req)
	if err != nil {
		c.Logger().Error("Handler.AddVehicle: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, v)
}

func (h *Handler) ListMyVehicles(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	list, err := h.service.ListMyVehicles(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Error("Handler.ListMyVehicles: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, list)
}

func (h *Handler) RemoveVehicle(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveVehicle(c.Request().Context(), userID, c.Param("id")); err != nil {
		c.Logger().Error("Handler.RemoveVehicle: ", err)
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
