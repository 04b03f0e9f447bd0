package stripe

import (
	"fmt"
	"net/http"
	"os"

	"mealsaver-backend/db"
	"mealsaver-backend/middleware"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	session "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
)

type CheckoutRequest struct {
	PriceID         string `json:"priceId" binding:"required"`
	SuccessURL      string `json:"successUrl" binding:"required"`
	CancelURL       string `json:"cancelUrl" binding:"required"`
	PlanTier        string `json:"planTier" binding:"required"`
	BillingInterval string `json:"billingInterval"`
}

// Remplaçables dans les tests
var (
	getStripeCustomer = func(id string) (*stripe.Customer, error) {
		return customer.Get(id, nil)
	}
	createStripeCustomer = func(params *stripe.CustomerParams) (*stripe.Customer, error) {
		return customer.New(params)
	}
)

// ensureStripeCustomer vérifie qu'un customer id stocké existe toujours côté
// Stripe, sinon en recrée un et le persiste immédiatement
func ensureStripeCustomer(profile *models.Profile) (string, error) {
	if profile.StripeCustomerId != "" {
		if _, err := getStripeCustomer(profile.StripeCustomerId); err == nil {
			return profile.StripeCustomerId, nil
		}
		// Le customer n'existe plus sur Stripe, on repart de zéro
		profile.StripeCustomerId = ""
	}

	custParams := &stripe.CustomerParams{
		Email: stripe.String(profile.Email),
		Name:  stripe.String(profile.FullName),
	}
	custParams.AddMetadata("user_id", profile.ID)
	cust, err := createStripeCustomer(custParams)
	if err != nil {
		return "", err
	}

	// Un customer créé mais non persisté serait recréé au prochain passage,
	// on refuse de continuer sans trace locale
	if err := db.DB.Model(profile).Update("stripe_customer_id", cust.ID).Error; err != nil {
		return "", fmt.Errorf("persistance du customer id %s échouée: %w", cust.ID, err)
	}
	profile.StripeCustomerId = cust.ID
	return cust.ID, nil
}

// CreateCheckoutSession opens a Stripe-hosted checkout for a subscription
// purchase and returns the redirect URL.
// @Summary Create a Stripe Checkout session
// @Description Start a Stripe subscription purchase. Returns the hosted checkout URL and session id.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body CheckoutRequest true "Checkout parameters"
// @Security BearerAuth
// @Success 200 {object} map[string]string "url: Stripe Checkout URL, sessionId: session id"
// @Failure 400 {object} map[string]string "error: Invalid request body"
// @Failure 401 {object} map[string]string "error: User not authenticated"
// @Failure 404 {object} map[string]string "error: Profile not found"
// @Failure 500 {object} map[string]string "error: Stripe error"
// @Router /subscriptions/checkout [post]
func CreateCheckoutSession(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	userID := middleware.ResolveUserID(c, "")
	if userID == "" {
		utils.LogError(nil, "User not authenticated dans CreateCheckoutSession")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var profile models.Profile
	if err := db.DB.First(&profile, "id = ?", userID).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Profile not found dans CreateCheckoutSession")
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	customerID, err := ensureStripeCustomer(&profile)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Erreur lors de la création du client Stripe dans CreateCheckoutSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du client Stripe"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	// Les metadata portent ce que le webhook de réconciliation attend
	params.AddMetadata("user_id", userID)
	params.AddMetadata("plan_tier", req.PlanTier)
	if req.BillingInterval != "" {
		params.AddMetadata("billing_interval", req.BillingInterval)
	}

	s, err := session.New(params)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Erreur lors de la création de la session Stripe dans CreateCheckoutSession")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Session Stripe de souscription créée avec succès dans CreateCheckoutSession")
	c.JSON(http.StatusOK, gin.H{"url": s.URL, "sessionId": s.ID})
}
