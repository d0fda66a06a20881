package trips

import (
	"net/http"
	"strconv"

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

func (h *Handler) CreateTrip(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateTripRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	result, err := h.service.CreateTrip(c.Request().Context(), userID, req)
	if err != nil {
		c.Logger().Error("Handler.CreateTrip: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, result)
}

// CreateTripByAdmin creates a trip on behalf of a customer, with optional
// base-fare overrides and driver pre-assignment. Admin only.
func (h *Handler) CreateTripByAdmin(c echo.Context) error {
	var req models.AdminCreateTripRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	result, err := h.service.CreateTripByAdmin(c.Request().Context(), req)
	if err != nil {
		c.Logger().Error("Handler.CreateTripByAdmin: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusCreated, result)
}

func (h *Handler) GetTrip(c echo.Context) error {
	tripID, err := utils.GetUUIDParam(c, "id")
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	trip, err := h.service.GetTrip(c.Request().Context(), tripID)
	if err != nil {
		c.Logger().Error("Handler.GetTrip: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, trip)
}

func (h *Handler) ListMyTrips(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}
	page, limit := utils.GetPageLimit(c)

	filter := models.TripFilter{
		Status: models.TripStatus(c.QueryParam("status")),
		Tab:    c.QueryParam("tab"),
		Search: c.QueryParam("search"),
	}
	if role == models.RoleDriver {
		filter.DriverID = userID
	} else {
		filter.UserID = userID
	}

	trips, err := h.service.ListTrips(c.Request().Context(), filter, page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListMyTrips: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, trips)
}

// ListAllTrips is the unscoped admin listing with the full filter set.
func (h *Handler) ListAllTrips(c echo.Context) error {
	page, limit := utils.GetPageLimit(c)

	filter := models.TripFilter{
		UserID:          c.QueryParam("user"),
		DriverID:        c.QueryParam("driver"),
		Status:          models.TripStatus(c.QueryParam("status")),
		MaterialID:      c.QueryParam("material"),
		VehicleDetailID: c.QueryParam("vehicle_details"),
		Tab:             c.QueryParam("tab"),
		Search:          c.QueryParam("search"),
	}
	if v := c.QueryParam("assisstant"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Assistants = &n
		}
	}

	trips, err := h.service.ListTrips(c.Request().Context(), filter, page, limit)
	if err != nil {
		c.Logger().Error("Handler.ListAllTrips: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, trips)
}

// Respond records a driver's accept or reject decision for an offered trip.
func (h *Handler) Respond(c echo.Context) error {
	driverID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.RespondRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	trip, err := h.service.Respond(c.Request().Context(), driverID, req)
	if err != nil {
		c.Logger().Error("Handler.Respond: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, trip)
}

// AssignDriver manually assigns a driver to a searching trip. Admin only.
func (h *Handler) AssignDriver(c echo.Context) error {
	var req models.AssignDriverRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	trip, err := h.service.AssignDriver(c.Request().Context(), req)
	if err != nil {
		c.Logger().Error("Handler.AssignDriver: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, trip)
}

// RetryTrip re-runs the driver search for a cancelled trip.
func (h *Handler) RetryTrip(c echo.Context) error {
	tripID, err := utils.GetUUIDParam(c, "id")
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	result, err := h.service.RetryTrip(c.Request().Context(), tripID)
	if err != nil {
		c.Logger().Error("Handler.RetryTrip: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, result)
}

func (h *Handler) EditTrip(c echo.Context) error {
	tripID, err := utils.GetUUIDParam(c, "id")
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	var req models.UpdateTripRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	trip, err := h.service.EditTrip(c.Request().Context(), tripID, req)
	if err != nil {
		c.Logger().Error("Handler.EditTrip: ", err)
		return utils.HandleServiceError(c, err)
	}
	return utils.RespondWithJSON(c, http.StatusOK, trip)
}
