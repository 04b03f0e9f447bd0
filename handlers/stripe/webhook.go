package stripe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"mealsaver-backend/db"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"
	mailsmodels "mealsaver-backend/utils/mails-models"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm/clause"
)

// Points d'entrée Stripe remplaçables dans les tests
var (
	fetchSubscription = func(id string) (*stripe.Subscription, error) {
		stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
		return stripeSubscription.Get(id, nil)
	}
	notifySubscriptionConfirmed = mailsmodels.SubscriptionConfirmation
	notifySubscriptionCanceled  = mailsmodels.SubscriptionCanceled
)

// StripeWebhookHandler verifies the Stripe signature, dispatches the event to
// the reconciliation branch for its type, then appends one audit row. Replays
// of an already-processed event id are acknowledged without reprocessing.
// @Summary Stripe webhook endpoint
// @Description Receive and reconcile Stripe billing events (signature required)
// @Tags stripe
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "received: true"
// @Failure 400 {object} map[string]string "error: signature verification failed"
// @Failure 500 {object} map[string]string "error: processing error"
// @Router /stripe/webhook [post]
func StripeWebhookHandler(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Impossible de lire le corps de la requête"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook secret non configuré"})
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, secret)
	if err != nil {
		// Échec de vérification: rien n'est écrit, pas même le log d'audit
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vérification de la signature Stripe échouée"})
		return
	}

	var prior models.WebhookLog
	if err := db.DB.First(&prior, "event_id = ? AND processed = ?", event.ID, true).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"received": true, "message": "Événement déjà traité"})
		return
	}

	var handleErr error
	switch event.Type {
	case "checkout.session.completed":
		handleErr = handleCheckoutSessionCompleted(event)
	case "customer.subscription.created", "customer.subscription.updated":
		handleErr = handleSubscriptionUpdated(event)
	case "customer.subscription.deleted":
		handleErr = handleSubscriptionDeleted(event)
	case "invoice.payment_succeeded":
		handleErr = handleInvoicePaymentSucceeded(event)
	case "invoice.payment_failed":
		handleErr = handleInvoicePaymentFailed(event)
	default:
		utils.LogInfo("Événement Stripe ignoré: " + string(event.Type))
	}

	logWebhookEvent(event, payload, handleErr)

	if handleErr != nil {
		utils.LogError(handleErr, "Erreur de traitement du webhook Stripe "+string(event.Type))
		c.JSON(http.StatusInternalServerError, gin.H{"error": handleErr.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// logWebhookEvent ajoute la ligne d'audit, une par événement reçu
func logWebhookEvent(event stripe.Event, payload []byte, handleErr error) {
	now := time.Now()
	entry := models.WebhookLog{
		EventID:     event.ID,
		EventType:   string(event.Type),
		Payload:     string(payload),
		Processed:   handleErr == nil,
		ProcessedAt: &now,
	}
	if handleErr != nil {
		entry.Error = handleErr.Error()
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"processed", "processed_at", "error"}),
	}).Create(&entry).Error
	if err != nil {
		utils.LogError(err, "Impossible d'écrire le log de webhook "+event.ID)
	}
}

func unixTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}
	t := time.Unix(ts, 0)
	return &t
}

// subscriptionRow construit la ligne locale à partir de l'objet Stripe
// fraîchement récupéré, seule source de vérité des deux écritures.
func subscriptionRow(userID string, tier models.SubscriptionTier, sub *stripe.Subscription) models.Subscription {
	row := models.Subscription{
		UserID:               userID,
		StripeSubscriptionId: sub.ID,
		PlanTier:             tier,
		Status:               models.SubscriptionStatus(sub.Status),
		CancelAtPeriodEnd:    sub.CancelAtPeriodEnd,
		CanceledAt:           unixTime(sub.CanceledAt),
		TrialEnd:             unixTime(sub.TrialEnd),
	}
	if sub.Customer != nil {
		row.StripeCustomerId = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		row.CurrentPeriodStart = unixTime(item.CurrentPeriodStart)
		row.CurrentPeriodEnd = unixTime(item.CurrentPeriodEnd)
		if item.Price != nil {
			row.StripePriceId = item.Price.ID
			if item.Price.Recurring != nil {
				row.BillingInterval = string(item.Price.Recurring.Interval)
			}
		}
	}
	if row.PlanTier == "" {
		row.PlanTier = PlanTierFromPriceId(row.StripePriceId)
	}
	return row
}

func upsertSubscription(row *models.Subscription) error {
	return db.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "stripe_customer_id", "stripe_price_id", "plan_tier",
			"billing_interval", "status", "current_period_start", "current_period_end",
			"cancel_at_period_end", "canceled_at", "trial_end", "updated_at",
		}),
	}).Create(row).Error
}

func handleCheckoutSessionCompleted(event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("erreur parsing CheckoutSession: %w", err)
	}

	userID := session.Metadata["user_id"]
	planTier := session.Metadata["plan_tier"]
	if userID == "" || planTier == "" {
		// Pas une session d'abonnement Meal Saver, on accepte sans rien écrire
		utils.LogInfo("checkout.session.completed sans metadata user_id/plan_tier, ignoré")
		return nil
	}

	if session.Subscription == nil {
		utils.LogInfo("checkout.session.completed sans subscription attachée, ignoré")
		return nil
	}

	// Le payload de cet événement ne porte pas les dates de période,
	// il faut récupérer l'objet complet
	sub, err := fetchSubscription(session.Subscription.ID)
	if err != nil {
		return fmt.Errorf("récupération de la subscription %s échouée: %w", session.Subscription.ID, err)
	}

	row := subscriptionRow(userID, models.SubscriptionTier(planTier), sub)
	if err := upsertSubscription(&row); err != nil {
		return fmt.Errorf("upsert subscription échoué: %w", err)
	}

	// Deuxième écriture dérivée du même objet source; pas de rollback si
	// elle échoue, le prochain webhook ou un force sync répare
	err = db.DB.Model(&models.Profile{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"subscription_tier":   row.PlanTier,
		"subscription_status": string(row.Status),
		"stripe_customer_id":  row.StripeCustomerId,
	}).Error
	if err != nil {
		return fmt.Errorf("mise à jour du profil échouée: %w", err)
	}

	var profile models.Profile
	if err := db.DB.First(&profile, "id = ?", userID).Error; err == nil && profile.Email != "" {
		notifySubscriptionConfirmed(profile.Email, string(row.PlanTier))
	}

	utils.LogSuccessWithUser(userID, "Subscription réconciliée via checkout.session.completed")
	return nil
}

func handleSubscriptionUpdated(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("erreur parsing Subscription: %w", err)
	}

	var local models.Subscription
	if err := db.DB.First(&local, "stripe_subscription_id = ?", sub.ID).Error; err != nil {
		// Update arrivé avant le create: rien à réconcilier pour le moment
		utils.LogInfo("Subscription " + sub.ID + " inconnue localement, événement ignoré")
		return nil
	}

	updates := map[string]interface{}{
		"status":               string(sub.Status),
		"cancel_at_period_end": sub.CancelAtPeriodEnd,
		"canceled_at":          unixTime(sub.CanceledAt),
		"trial_end":            unixTime(sub.TrialEnd),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		updates["current_period_start"] = unixTime(sub.Items.Data[0].CurrentPeriodStart)
		updates["current_period_end"] = unixTime(sub.Items.Data[0].CurrentPeriodEnd)
	}

	if err := db.DB.Model(&local).Updates(updates).Error; err != nil {
		return fmt.Errorf("mise à jour de la subscription échouée: %w", err)
	}

	// Seul le statut est reflété sur le profil, jamais le tier ici
	err := db.DB.Model(&models.Profile{}).Where("id = ?", local.UserID).
		Update("subscription_status", string(sub.Status)).Error
	if err != nil {
		return fmt.Errorf("mise à jour du statut de profil échouée: %w", err)
	}

	return nil
}

func handleSubscriptionDeleted(event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("erreur parsing Subscription: %w", err)
	}

	var local models.Subscription
	if err := db.DB.First(&local, "stripe_subscription_id = ?", sub.ID).Error; err != nil {
		utils.LogInfo("Subscription " + sub.ID + " inconnue localement, suppression ignorée")
		return nil
	}

	now := time.Now()
	err := db.DB.Model(&local).Updates(map[string]interface{}{
		"status":               models.SubscriptionCanceled,
		"canceled_at":          &now,
		"cancel_at_period_end": false,
	}).Error
	if err != nil {
		return fmt.Errorf("annulation de la subscription échouée: %w", err)
	}

	// Règle métier: une annulation ramène toujours la formule à basic,
	// quel que soit le tier précédent
	err = db.DB.Model(&models.Profile{}).Where("id = ?", local.UserID).Updates(map[string]interface{}{
		"subscription_tier":   models.TierBasic,
		"subscription_status": models.SubscriptionCanceled,
	}).Error
	if err != nil {
		return fmt.Errorf("rétrogradation du profil échouée: %w", err)
	}

	var profile models.Profile
	if err := db.DB.First(&profile, "id = ?", local.UserID).Error; err == nil && profile.Email != "" {
		notifySubscriptionCanceled(profile.Email)
	}

	utils.LogSuccessWithUser(local.UserID, "Subscription annulée et profil rétrogradé via customer.subscription.deleted")
	return nil
}

// extractInvoiceSubscriptionId gère les deux formes du payload d'invoice:
// parent.subscription_details.subscription (API récentes) puis le champ
// subscription historique
func extractInvoiceSubscriptionId(invoiceData map[string]interface{}) string {
	if parent, ok := invoiceData["parent"].(map[string]interface{}); ok {
		if subDetails, ok := parent["subscription_details"].(map[string]interface{}); ok {
			if sub, ok := subDetails["subscription"].(string); ok && sub != "" {
				return sub
			}
		}
	}
	if v, ok := invoiceData["subscription"]; ok && v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func handleInvoicePaymentSucceeded(event stripe.Event) error {
	var invoiceData map[string]interface{}
	if err := json.Unmarshal(event.Data.Raw, &invoiceData); err != nil {
		return fmt.Errorf("erreur parsing Invoice: %w", err)
	}

	stripeSubID := extractInvoiceSubscriptionId(invoiceData)
	paymentIntentID, _ := invoiceData["payment_intent"].(string)
	if stripeSubID == "" || paymentIntentID == "" {
		// Facture hors abonnement, rien à enregistrer
		utils.LogInfo("invoice.payment_succeeded sans subscription ou payment_intent, ignoré")
		return nil
	}

	var local models.Subscription
	if err := db.DB.First(&local, "stripe_subscription_id = ?", stripeSubID).Error; err != nil {
		utils.LogInfo("Subscription locale non trouvée pour " + stripeSubID + ", paiement ignoré")
		return nil
	}

	record := models.PaymentRecord{
		UserID:                local.UserID,
		StripePaymentIntentId: paymentIntentID,
		Description:           "Subscription payment",
	}
	if invoiceID, ok := invoiceData["id"].(string); ok {
		record.StripeInvoiceId = invoiceID
	}
	if chargeID, ok := invoiceData["charge"].(string); ok {
		record.StripeChargeId = chargeID
	}
	if amountPaid, ok := invoiceData["amount_paid"].(float64); ok {
		record.Amount = int64(amountPaid)
	}
	if currency, ok := invoiceData["currency"].(string); ok {
		record.Currency = currency
	}
	if status, ok := invoiceData["status"].(string); ok {
		record.Status = status
	}
	if receiptURL, ok := invoiceData["hosted_invoice_url"].(string); ok {
		record.ReceiptURL = receiptURL
	}

	// La clé d'upsert sur le payment intent rend la redélivrance idempotente
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_payment_intent_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "status", "receipt_url"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("enregistrement du paiement échoué: %w", err)
	}

	utils.LogSuccessWithUser(local.UserID, "Paiement enregistré via invoice.payment_succeeded")
	return nil
}

func handleInvoicePaymentFailed(event stripe.Event) error {
	var invoiceData map[string]interface{}
	if err := json.Unmarshal(event.Data.Raw, &invoiceData); err != nil {
		return fmt.Errorf("erreur parsing Invoice: %w", err)
	}

	stripeSubID := extractInvoiceSubscriptionId(invoiceData)
	if stripeSubID == "" {
		utils.LogInfo("invoice.payment_failed sans subscription, ignoré")
		return nil
	}

	var local models.Subscription
	if err := db.DB.First(&local, "stripe_subscription_id = ?", stripeSubID).Error; err != nil {
		utils.LogInfo("Subscription locale non trouvée pour " + stripeSubID + ", échec de paiement ignoré")
		return nil
	}

	if err := db.DB.Model(&local).Update("status", models.SubscriptionPastDue).Error; err != nil {
		return fmt.Errorf("passage en past_due échoué: %w", err)
	}

	// Période de grâce: le tier reste inchangé pendant que Stripe retente
	// le paiement, seul le statut bascule
	err := db.DB.Model(&models.Profile{}).Where("id = ?", local.UserID).
		Update("subscription_status", models.SubscriptionPastDue).Error
	if err != nil {
		return fmt.Errorf("mise à jour du statut de profil échouée: %w", err)
	}

	utils.LogSuccessWithUser(local.UserID, "Subscription passée en past_due via invoice.payment_failed")
	return nil
}
