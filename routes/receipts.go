package routes

import (
	"mealsaver-backend/handlers/receipts"
	"mealsaver-backend/middleware"

	"github.com/gin-gonic/gin"
)

func ReceiptsRoutes(r *gin.Engine) {
	receiptsRoutes := r.Group("/receipts")
	receiptsRoutes.Use(middleware.JWTAuth())
	{
		receiptsRoutes.GET("/gmail/connect", receipts.ConnectGmail)
		receiptsRoutes.POST("/gmail/callback", receipts.GmailCallback)
		receiptsRoutes.DELETE("/gmail", receipts.DisconnectGmail)
	}
}
