package api

import (
	"net/http"

	"freight-dispatch/internal/api/middleware"
	"freight-dispatch/internal/modules/credits"
	"freight-dispatch/internal/modules/materials"
	"freight-dispatch/internal/modules/notifications"
	"freight-dispatch/internal/modules/trips"
	"freight-dispatch/internal/modules/users"
	"freight-dispatch/internal/modules/vehicles"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	userHandler *users.Handler,
	vehicleHandler *vehicles.Handler,
	materialHandler *materials.Handler,
	tripHandler *trips.Handler,
	notificationHandler *notifications.Handler,
	creditHandler *credits.Handler,
	jwtSecret string,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	adminRequired := middleware.AdminRequired()
	driverRequired := middleware.DriverRequired()

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Freight dispatch service"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", userHandler.Signup)
		authGroup.POST("/login", userHandler.Login)
	}

	// --- Profile ---
	profileGroup := e.Group("/profile", authMiddleware)
	{
		profileGroup.GET("", userHandler.GetProfile)
		profileGroup.PUT("", userHandler.UpdateProfile)
	}

	// --- Vehicle Types (rate card) ---
	vehicleTypeGroup := e.Group("/vehicle-types", authMiddleware)
	{
		vehicleTypeGroup.GET("", vehicleHandler.ListTypes)
		vehicleTypeGroup.GET("/:id", vehicleHandler.GetType)
		vehicleTypeGroup.POST("", vehicleHandler.CreateType, adminRequired)
		vehicleTypeGroup.PUT("/:id", vehicleHandler.UpdateType, adminRequired)
	}

	// --- Vehicles (driver fleet) ---
	vehicleGroup := e.Group("/vehicles", authMiddleware, driverRequired)
	{
		vehicleGroup.POST("", vehicleHandler.AddVehicle)
		vehicleGroup.GET("", vehicleHandler.ListMyVehicles)
		vehicleGroup.DELETE("/:id", vehicleHandler.RemoveVehicle)
	}

	// --- Materials ---
	materialGroup := e.Group("/materials", authMiddleware)
	{
		materialGroup.GET("", materialHandler.List)
		materialGroup.GET("/:id", materialHandler.Get)
		materialGroup.POST("", materialHandler.Create, adminRequired)
		materialGroup.DELETE("/:id", materialHandler.Delete, adminRequired)
	}

	// --- Trips ---
	tripGroup := e.Group("/trips", authMiddleware)
	{
		tripGroup.POST("", tripHandler.CreateTrip)
		tripGroup.GET("", tripHandler.ListMyTrips)
		tripGroup.GET("/:id", tripHandler.GetTrip)
		tripGroup.POST("/respond", tripHandler.Respond, driverRequired)
	}

	// --- Notifications ---
	notificationGroup := e.Group("/notifications", authMiddleware)
	{
		notificationGroup.GET("", notificationHandler.Inbox)
	}

	// --- Credits ---
	creditGroup := e.Group("/credits", authMiddleware)
	{
		creditGroup.POST("", creditHandler.Add)
		creditGroup.GET("", creditHandler.List)
		creditGroup.DELETE("/:id", creditHandler.Delete)
	}

	// --- Admin Routes ---
	adminGroup := e.Group("/admin", authMiddleware, adminRequired)
	{
		adminGroup.GET("/users", userHandler.ListUsers)

		adminGroup.GET("/trips", tripHandler.ListAllTrips)
		adminGroup.POST("/trips", tripHandler.CreateTripByAdmin)
		adminGroup.PATCH("/trips/:id", tripHandler.EditTrip)
		adminGroup.POST("/trips/:id/retry", tripHandler.RetryTrip)
		adminGroup.POST("/trips/assign", tripHandler.AssignDriver)
	}
}
