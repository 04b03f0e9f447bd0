package routes

import (
	"mealsaver-backend/handlers/household"
	"mealsaver-backend/middleware"

	"github.com/gin-gonic/gin"
)

func HouseholdRoutes(r *gin.Engine) {
	householdRoutes := r.Group("/households")
	householdRoutes.Use(middleware.JWTAuth())
	{
		householdRoutes.POST("", household.CreateHousehold)
		householdRoutes.POST("/join", household.JoinHousehold)
		householdRoutes.GET("/:householdId/members", household.GetHouseholdMembers)
		householdRoutes.DELETE("/:householdId/leave", household.LeaveHousehold)
	}
}
