package routes

import (
	"mealsaver-backend/handlers/stripe"

	"github.com/gin-gonic/gin"
)

func StripeRoutes(r *gin.Engine) {
	subscriptionRoutes := r.Group("/subscriptions")
	{
		// Double auth de transition: bearer vérifié ou header X-Clerk-User-Id,
		// résolu dans les handlers
		subscriptionRoutes.POST("/checkout", stripe.CreateCheckoutSession)
		subscriptionRoutes.POST("/portal", stripe.CreatePortalSession)
		subscriptionRoutes.POST("/change-plan", stripe.ChangePlan)
		subscriptionRoutes.POST("/sync", stripe.SyncSubscription)
	}
	r.POST("/stripe/webhook", stripe.StripeWebhookHandler)
}
