package clerk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"mealsaver-backend/db"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"
	mailsmodels "mealsaver-backend/utils/mails-models"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v82"
	stripeSubscription "github.com/stripe/stripe-go/v82/subscription"
	"gorm.io/gorm/clause"
)

type clerkEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type clerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type clerkUser struct {
	ID                    string              `json:"id"`
	FirstName             string              `json:"first_name"`
	LastName              string              `json:"last_name"`
	ImageURL              string              `json:"image_url"`
	PrimaryEmailAddressID string              `json:"primary_email_address_id"`
	EmailAddresses        []clerkEmailAddress `json:"email_addresses"`
}

func (u clerkUser) primaryEmail() string {
	for _, addr := range u.EmailAddresses {
		if addr.ID == u.PrimaryEmailAddressID {
			return addr.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

func (u clerkUser) displayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.primaryEmail()
	}
	return name
}

// Remplaçables dans les tests
var (
	cancelStripeSubscription = func(id string) error {
		stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
		_, err := stripeSubscription.Cancel(id, nil)
		return err
	}
	notifyWelcome = mailsmodels.Welcome
)

// ClerkWebhookHandler mirrors identity-provider lifecycle events into the
// local profiles table. Deleting a user cancels all live Stripe subscriptions
// first; the profile is never scrubbed while one is still live.
// @Summary Clerk webhook endpoint
// @Description Receive user lifecycle events from the identity provider (svix signature required)
// @Tags clerk
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "received: true"
// @Failure 400 {object} map[string]string "error: missing headers or signature verification failed"
// @Failure 409 {object} map[string]string "error: email already registered to another account"
// @Failure 502 {object} map[string]string "error: subscription cancellation failed"
// @Router /clerk/webhook [post]
func ClerkWebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Impossible de lire le corps de la requête"})
		return
	}

	msgID := c.GetHeader("svix-id")
	timestamp := c.GetHeader("svix-timestamp")
	signature := c.GetHeader("svix-signature")
	if msgID == "" || timestamp == "" || signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing svix headers"})
		return
	}

	secret := os.Getenv("CLERK_WEBHOOK_SECRET")
	if err := VerifyWebhookSignature(payload, msgID, timestamp, signature, secret); err != nil {
		utils.LogError(err, "Vérification de la signature Clerk échouée")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
		return
	}

	var event clerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Erreur parsing de l'événement Clerk"})
		return
	}

	switch event.Type {
	case "user.created":
		handleUserCreated(c, event)
	case "user.updated":
		handleUserUpdated(c, event)
	case "user.deleted":
		handleUserDeleted(c, event)
	default:
		utils.LogInfo("Événement Clerk ignoré: " + event.Type)
		c.JSON(http.StatusOK, gin.H{"received": true, "message": "Événement ignoré"})
	}
}

func handleUserCreated(c *gin.Context, event clerkEvent) {
	var user clerkUser
	if err := json.Unmarshal(event.Data, &user); err != nil || user.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Erreur parsing user.created"})
		return
	}

	email := user.primaryEmail()
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User has no email address"})
		return
	}

	// Garde anti-usurpation: le même email sur un autre user id est rejeté
	var existing models.Profile
	if err := db.DB.First(&existing, "email = ? AND id <> ?", email, user.ID).Error; err == nil {
		utils.LogErrorWithUser(user.ID, nil, "Collision d'email dans handleUserCreated")
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered to another account"})
		return
	}

	profile := models.Profile{
		ID:                 user.ID,
		Email:              email,
		FullName:           user.displayName(),
		AvatarURL:          user.ImageURL,
		SubscriptionTier:   models.TierBasic,
		SubscriptionStatus: string(models.SubscriptionActive),
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "full_name", "avatar_url", "updated_at"}),
	}).Create(&profile).Error
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Création du profil échouée dans handleUserCreated")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création profil"})
		return
	}

	notifyWelcome(email, profile.FullName)

	utils.LogSuccessWithUser(user.ID, "Profil créé via user.created")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func handleUserUpdated(c *gin.Context, event clerkEvent) {
	var user clerkUser
	if err := json.Unmarshal(event.Data, &user); err != nil || user.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Erreur parsing user.updated"})
		return
	}

	updates := map[string]interface{}{
		"full_name":  user.displayName(),
		"avatar_url": user.ImageURL,
	}
	if email := user.primaryEmail(); email != "" {
		updates["email"] = email
	}

	err := db.DB.Model(&models.Profile{}).Where("id = ?", user.ID).Updates(updates).Error
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Mise à jour du profil échouée dans handleUserUpdated")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Profil mis à jour via user.updated")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func handleUserDeleted(c *gin.Context, event clerkEvent) {
	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data, &user); err != nil || user.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Erreur parsing user.deleted"})
		return
	}

	var profile models.Profile
	if err := db.DB.First(&profile, "id = ?", user.ID).Error; err != nil {
		utils.LogInfo("Profil " + user.ID + " inconnu, suppression ignorée")
		c.JSON(http.StatusOK, gin.H{"received": true, "message": "Profil inconnu"})
		return
	}

	if profile.StripeCustomerId != "" {
		var subs []models.Subscription
		err := db.DB.Where("user_id = ? AND status IN ?", user.ID,
			[]models.SubscriptionStatus{models.SubscriptionActive, models.SubscriptionTrialing, models.SubscriptionPastDue}).
			Find(&subs).Error
		if err != nil {
			utils.LogErrorWithUser(user.ID, err, "Lecture des subscriptions échouée dans handleUserDeleted")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture des subscriptions"})
			return
		}

		if failed := cancelAllSubscriptions(subs); len(failed) > 0 {
			// Tout-ou-rien: on ne scrubbe jamais un profil tant qu'un
			// abonnement reste actif côté Stripe
			utils.LogErrorWithUser(user.ID, nil, "Annulations Stripe échouées dans handleUserDeleted: "+strings.Join(failed, ", "))
			c.JSON(http.StatusBadGateway, gin.H{
				"error":               "Failed to cancel subscriptions at Stripe",
				"failedSubscriptions": failed,
			})
			return
		}

		if len(subs) > 0 {
			now := time.Now()
			err = db.DB.Model(&models.Subscription{}).
				Where("user_id = ? AND status IN ?", user.ID,
					[]models.SubscriptionStatus{models.SubscriptionActive, models.SubscriptionTrialing, models.SubscriptionPastDue}).
				Updates(map[string]interface{}{
					"status":      models.SubscriptionCanceled,
					"canceled_at": &now,
				}).Error
			if err != nil {
				utils.LogErrorWithUser(user.ID, err, "Mise à jour locale des subscriptions échouée dans handleUserDeleted")
			}
		}
	}

	// Anonymisation: l'email reste unique grâce à la sentinelle par user id
	err := db.DB.Model(&profile).Updates(map[string]interface{}{
		"email":               fmt.Sprintf("deleted_%s@deleted.invalid", user.ID),
		"full_name":           "Deleted User",
		"avatar_url":          "",
		"subscription_tier":   models.TierBasic,
		"subscription_status": string(models.SubscriptionCanceled),
	}).Error
	if err != nil {
		utils.LogErrorWithUser(user.ID, err, "Anonymisation du profil échouée dans handleUserDeleted")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur anonymisation du profil"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Profil anonymisé via user.deleted")
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// cancelAllSubscriptions lance toutes les annulations en parallèle et
// collecte les ids en échec au lieu de s'arrêter à la première erreur
func cancelAllSubscriptions(subs []models.Subscription) []string {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []string

	for _, sub := range subs {
		wg.Add(1)
		go func(stripeSubID string) {
			defer wg.Done()
			if err := cancelStripeSubscription(stripeSubID); err != nil {
				utils.LogError(err, "Annulation Stripe échouée pour "+stripeSubID)
				mu.Lock()
				failed = append(failed, stripeSubID)
				mu.Unlock()
			}
		}(sub.StripeSubscriptionId)
	}

	wg.Wait()
	return failed
}
