package materials

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

func (h *Handler) Create(c echo.Context) error {
	var req models.CreateMaterialRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	m, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		c.Logger().Error("Handler.CreateMaterial: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, m)
}

func (h *Handler) Get(c echo.Context) error {
	m, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		c.Logger().Error("Handler.GetMaterial: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, m)
}

func (h *Handler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.ListMaterials: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, list)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		c.Logger().Error("Handler.DeleteMaterial: ", err)
		return utils.HandleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
