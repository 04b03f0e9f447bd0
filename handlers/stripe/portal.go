package stripe

import (
	"net/http"
	"os"

	"mealsaver-backend/db"
	"mealsaver-backend/middleware"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"
)

type PortalRequest struct {
	UserID    string `json:"userId"`
	ReturnURL string `json:"returnUrl"`
}

type ChangePlanRequest struct {
	UserID     string `json:"userId"`
	NewPriceID string `json:"newPriceId" binding:"required"`
}

// Remplaçable dans les tests
var updateStripeSubscription = func(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return stripeSubscription.Update(id, params)
}

// CreatePortalSession opens the Stripe-hosted billing portal for the user.
// @Summary Open the Stripe billing portal
// @Description Create a billing portal session and return its URL
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body PortalRequest true "User and return URL"
// @Success 200 {object} map[string]string "url: portal URL"
// @Failure 401 {object} map[string]string "error: User not authenticated"
// @Failure 404 {object} map[string]string "error: No billing account on file"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /subscriptions/portal [post]
func CreatePortalSession(c *gin.Context) {
	var req PortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	userID := middleware.ResolveUserID(c, req.UserID)
	if userID == "" {
		utils.LogError(nil, "User not authenticated dans CreatePortalSession")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var profile models.Profile
	if err := db.DB.First(&profile, "id = ?", userID).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Profile not found dans CreatePortalSession")
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	if profile.StripeCustomerId == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No billing account on file"})
		return
	}

	params := &stripe.BillingPortalSessionParams{
		Customer: stripe.String(profile.StripeCustomerId),
	}
	if req.ReturnURL != "" {
		params.ReturnURL = stripe.String(req.ReturnURL)
	}

	s, err := portalsession.New(params)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Erreur lors de la création de la session de portail dans CreatePortalSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Session de portail Stripe créée dans CreatePortalSession")
	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

// ChangePlan moves the user's current subscription to a new price with
// proration, then mirrors the change locally.
// @Summary Change subscription plan
// @Description Switch the most recent active subscription to a new Stripe price
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body ChangePlanRequest true "New price id"
// @Success 200 {object} map[string]string "message: Plan changed successfully, tier: new tier"
// @Failure 401 {object} map[string]string "error: User not authenticated"
// @Failure 404 {object} map[string]string "error: No active subscription found"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /subscriptions/change-plan [post]
func ChangePlan(c *gin.Context) {
	var req ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	userID := middleware.ResolveUserID(c, req.UserID)
	if userID == "" {
		utils.LogError(nil, "User not authenticated dans ChangePlan")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Seule la ligne la plus récente en active/trialing/past_due fait foi
	var local models.Subscription
	err := db.DB.
		Where("user_id = ? AND status IN ?", userID,
			[]models.SubscriptionStatus{models.SubscriptionActive, models.SubscriptionTrialing, models.SubscriptionPastDue}).
		Order("created_at desc").
		First(&local).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "No active subscription found dans ChangePlan")
		c.JSON(http.StatusNotFound, gin.H{"error": "No active subscription found"})
		return
	}

	sub, err := fetchSubscription(local.StripeSubscriptionId)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Récupération de la subscription Stripe échouée dans ChangePlan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Subscription has no items"})
		return
	}

	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(sub.Items.Data[0].ID),
				Price: stripe.String(req.NewPriceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}

	updated, err := updateStripeSubscription(local.StripeSubscriptionId, params)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Erreur lors du changement de plan Stripe dans ChangePlan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	newTier := PlanTierFromPriceId(req.NewPriceID)
	updates := map[string]interface{}{
		"stripe_price_id": req.NewPriceID,
		"plan_tier":       newTier,
		"status":          string(updated.Status),
	}
	if updated.Items != nil && len(updated.Items.Data) > 0 {
		if updated.Items.Data[0].Price != nil && updated.Items.Data[0].Price.Recurring != nil {
			updates["billing_interval"] = string(updated.Items.Data[0].Price.Recurring.Interval)
		}
	}
	if err := db.DB.Model(&local).Updates(updates).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Mise à jour locale échouée dans ChangePlan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = db.DB.Model(&models.Profile{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"subscription_tier":   newTier,
		"subscription_status": string(updated.Status),
	}).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Mise à jour du profil échouée dans ChangePlan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Plan changé avec succès dans ChangePlan")
	c.JSON(http.StatusOK, gin.H{"message": "Plan changed successfully", "tier": string(newTier)})
}
