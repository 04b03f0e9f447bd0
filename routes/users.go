package routes

import (
	"mealsaver-backend/handlers/users"
	"mealsaver-backend/middleware"

	"github.com/gin-gonic/gin"
)

func UsersRoutes(r *gin.Engine) {
	userRoutes := r.Group("/users")
	userRoutes.Use(middleware.JWTAuth())
	{
		userRoutes.GET("/profile", users.GetUserProfile)
		userRoutes.PUT("/profile", users.UpdateUserProfile)
		userRoutes.DELETE("/account", users.DeleteAccount)
	}
}
