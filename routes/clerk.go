package routes

import (
	"mealsaver-backend/handlers/clerk"

	"github.com/gin-gonic/gin"
)

func ClerkRoutes(r *gin.Engine) {
	r.POST("/clerk/webhook", clerk.ClerkWebhookHandler)
}
