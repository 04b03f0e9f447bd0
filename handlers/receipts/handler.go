package receipts

import (
	"net/http"
	"os"

	"mealsaver-backend/db"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func gmailOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes:       []string{"https://www.googleapis.com/auth/gmail.readonly"},
		Endpoint:     google.Endpoint,
	}
}

// ConnectGmail returns the Google consent URL for receipt scanning
// @Summary Start the Gmail connection flow
// @Description Return the Google OAuth consent URL used to authorize receipt scanning
// @Tags receipts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "url: consent URL"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /receipts/gmail/connect [get]
func ConnectGmail(c *gin.Context) {
	_, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	cfg := gmailOAuthConfig()
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google OAuth non configuré"})
		return
	}

	state := uuid.NewString()
	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	c.JSON(http.StatusOK, gin.H{"url": url, "state": state})
}

type GmailCallbackInput struct {
	Code string `json:"code" binding:"required"`
}

// GmailCallback exchanges the OAuth code and stores the refresh token
// @Summary Finish the Gmail connection flow
// @Description Exchange the OAuth authorization code and persist the refresh token on the profile
// @Tags receipts
// @Accept json
// @Produce json
// @Param body body GmailCallbackInput true "Authorization code"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Gmail connected successfully"
// @Failure 400 {object} map[string]string "error: Invalid code"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /receipts/gmail/callback [post]
func GmailCallback(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input GmailCallbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	token, err := gmailOAuthConfig().Exchange(c.Request.Context(), input.Code)
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Échange du code OAuth échoué dans GmailCallback")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to exchange authorization code"})
		return
	}
	if token.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No refresh token returned, retry with consent prompt"})
		return
	}

	err = db.DB.Model(&models.Profile{}).Where("id = ?", userID).
		Update("gmail_refresh_token", token.RefreshToken).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Sauvegarde du refresh token échouée dans GmailCallback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Gmail connecté avec succès dans GmailCallback")
	c.JSON(http.StatusOK, gin.H{"message": "Gmail connected successfully"})
}

// DisconnectGmail clears the stored refresh token
// @Summary Disconnect Gmail
// @Tags receipts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Gmail disconnected"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /receipts/gmail [delete]
func DisconnectGmail(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	err := db.DB.Model(&models.Profile{}).Where("id = ?", userID).
		Update("gmail_refresh_token", "").Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Déconnexion Gmail échouée dans DisconnectGmail")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gmail disconnected"})
}
