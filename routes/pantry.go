package routes

import (
	"mealsaver-backend/handlers/pantry"
	"mealsaver-backend/middleware"

	"github.com/gin-gonic/gin"
)

func PantryRoutes(r *gin.Engine) {
	pantryRoutes := r.Group("/pantry")
	pantryRoutes.Use(middleware.JWTAuth())
	{
		pantryRoutes.POST("/items", pantry.CreatePantryItem)
		pantryRoutes.GET("/items", pantry.GetPantryItems)
		pantryRoutes.PUT("/items/:itemId", pantry.UpdatePantryItem)
		pantryRoutes.DELETE("/items/:itemId", pantry.DeletePantryItem)
		pantryRoutes.POST("/events", pantry.CreatePantryEvent)
		pantryRoutes.GET("/analytics", pantry.GetPantryAnalytics)
		pantryRoutes.POST("/locations", pantry.CreateStorageLocation)
		pantryRoutes.GET("/locations", pantry.GetStorageLocations)
		pantryRoutes.DELETE("/locations/:locationId", pantry.DeleteStorageLocation)
	}
}
