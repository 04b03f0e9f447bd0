package stripe

import (
	"net/http"
	"os"

	"mealsaver-backend/db"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"
)

type SyncRequest struct {
	UserID           string `json:"userId" binding:"required"`
	StripeCustomerID string `json:"stripeCustomerId"`
}

type SyncResult struct {
	Synced           bool   `json:"synced"`
	Tier             string `json:"tier"`
	Status           string `json:"status"`
	SubscriptionID   string `json:"subscriptionId,omitempty"`
	CurrentPeriodEnd string `json:"currentPeriodEnd,omitempty"`
	Message          string `json:"message"`
}

// Remplaçable dans les tests pour vérifier que Stripe n'est jamais appelé
// sans customer id
var listSubscriptions = func(customerID string, status string) ([]*stripe.Subscription, error) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
	}
	if status != "" {
		params.Status = stripe.String(status)
	}

	var subs []*stripe.Subscription
	iter := stripeSubscription.List(params)
	for iter.Next() {
		subs = append(subs, iter.Subscription())
	}
	return subs, iter.Err()
}

// SyncSubscription re-derives the subscription state straight from Stripe
// instead of trusting the local cache. The client calls it when a webhook
// looks delayed or lost.
// @Summary Force a subscription sync against Stripe
// @Description Re-derive tier and status from Stripe for a user and update the local rows
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body SyncRequest true "User to sync"
// @Success 200 {object} SyncResult
// @Failure 400 {object} map[string]string "error: Invalid request body"
// @Failure 404 {object} map[string]string "error: Profile not found"
// @Failure 502 {object} map[string]string "error: Stripe error"
// @Router /subscriptions/sync [post]
func SyncSubscription(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var profile models.Profile
	if err := db.DB.First(&profile, "id = ?", req.UserID).Error; err != nil {
		utils.LogErrorWithUser(req.UserID, err, "Profile not found dans SyncSubscription")
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	customerID := req.StripeCustomerID
	if customerID == "" {
		customerID = profile.StripeCustomerId
	}

	// Aucun compte de facturation: basic/active sans contacter Stripe
	if customerID == "" {
		c.JSON(http.StatusOK, SyncResult{
			Synced:  false,
			Tier:    string(models.TierBasic),
			Status:  string(models.SubscriptionActive),
			Message: "No billing account on file, nothing to sync",
		})
		return
	}

	active, err := listSubscriptions(customerID, "active")
	if err != nil {
		utils.LogErrorWithUser(req.UserID, err, "Stripe list active échoué dans SyncSubscription")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	trialing, err := listSubscriptions(customerID, "trialing")
	if err != nil {
		utils.LogErrorWithUser(req.UserID, err, "Stripe list trialing échoué dans SyncSubscription")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	candidates := append(active, trialing...)

	if len(candidates) == 0 {
		// Repli sur tous les statuts pour faire remonter un éventuel
		// past_due plutôt que de rétrograder silencieusement
		all, err := listSubscriptions(customerID, "all")
		if err != nil {
			utils.LogErrorWithUser(req.UserID, err, "Stripe list all échoué dans SyncSubscription")
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		candidates = all
	}

	if len(candidates) == 0 {
		err := db.DB.Model(&models.Profile{}).Where("id = ?", req.UserID).Updates(map[string]interface{}{
			"subscription_tier":   models.TierBasic,
			"subscription_status": models.SubscriptionActive,
			"stripe_customer_id":  customerID,
		}).Error
		if err != nil {
			utils.LogErrorWithUser(req.UserID, err, "Rétrogradation du profil échouée dans SyncSubscription")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, SyncResult{
			Synced:  true,
			Tier:    string(models.TierBasic),
			Status:  string(models.SubscriptionActive),
			Message: "No subscriptions found at Stripe, profile reverted to basic",
		})
		return
	}

	// L'index 0 fait foi: un customer ne porte au plus qu'une subscription
	// pertinente
	sub := candidates[0]

	row := subscriptionRow(req.UserID, "", sub)
	row.StripeCustomerId = customerID
	if err := upsertSubscription(&row); err != nil {
		utils.LogErrorWithUser(req.UserID, err, "Upsert subscription échoué dans SyncSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = db.DB.Model(&models.Profile{}).Where("id = ?", req.UserID).Updates(map[string]interface{}{
		"subscription_tier":   row.PlanTier,
		"subscription_status": string(row.Status),
		"stripe_customer_id":  customerID,
	}).Error
	if err != nil {
		utils.LogErrorWithUser(req.UserID, err, "Mise à jour du profil échouée dans SyncSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := SyncResult{
		Synced:         true,
		Tier:           string(row.PlanTier),
		Status:         string(row.Status),
		SubscriptionID: row.StripeSubscriptionId,
		Message:        "Subscription synced from Stripe",
	}
	if row.CurrentPeriodEnd != nil {
		result.CurrentPeriodEnd = row.CurrentPeriodEnd.UTC().Format("2006-01-02T15:04:05Z07:00")
	}

	utils.LogSuccessWithUser(req.UserID, "Synchronisation forcée réussie dans SyncSubscription")
	c.JSON(http.StatusOK, result)
}
