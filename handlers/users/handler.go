package users

import (
	"fmt"
	"net/http"

	"mealsaver-backend/db"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetUserProfile returns the connected user's profile
// @Summary Get the connected user's profile
// @Description Return the profile of the authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Profile not found"
// @Router /users/profile [get]
func GetUserProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated dans GetUserProfile")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var profile models.Profile
	if err := db.DB.First(&profile, "id = ?", userID).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Profile not found dans GetUserProfile")
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	utils.LogSuccessWithUser(userID, "Profil récupéré avec succès dans GetUserProfile")
	c.JSON(http.StatusOK, profile)
}

// UpdateUserProfile updates display name and avatar
// @Summary Update the connected user's profile
// @Description Update display name and avatar of the authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Param profile body models.ProfileUpdate true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Profile updated successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /users/profile [put]
func UpdateUserProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated dans UpdateUserProfile")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.FullName != "" {
		updates["full_name"] = input.FullName
	}
	if input.AvatarURL != "" {
		updates["avatar_url"] = input.AvatarURL
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	err := db.DB.Model(&models.Profile{}).Where("id = ?", userID).Updates(updates).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Mise à jour du profil échouée dans UpdateUserProfile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Profil mis à jour avec succès dans UpdateUserProfile")
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// DeleteAccount performs the client-triggered "delete my account" flow: a
// best-effort multi-table delete of the user's data, including the local
// payment history and subscription rows, then anonymization of the profile.
// Stripe-side cancellation is not done here, it belongs to the
// identity-provider deletion cascade.
// @Summary Delete the connected user's account data
// @Description Delete pantry data, memberships and history, then anonymize the profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Account deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 500 {object} map[string]string "error: Error message"
// @Router /users/account [delete]
func DeleteAccount(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.LogError(nil, "User not authenticated dans DeleteAccount")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Séquence multi-tables volontairement non transactionnelle, chaque
	// suppression est indépendante
	if err := db.DB.Where("user_id = ?", userID).Delete(&models.PantryEvent{}).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Suppression des événements échouée dans DeleteAccount")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := db.DB.Where("user_id = ?", userID).Delete(&models.PantryItem{}).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Suppression des items échouée dans DeleteAccount")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := db.DB.Where("user_id = ?", userID).Delete(&models.StorageLocation{}).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Suppression des emplacements échouée dans DeleteAccount")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := db.DB.Where("user_id = ?", userID).Delete(&models.HouseholdMember{}).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Suppression des adhésions échouée dans DeleteAccount")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := db.DB.Where("user_id = ?", userID).Delete(&models.PaymentRecord{}).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Suppression de l'historique de paiement échouée dans DeleteAccount")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := db.DB.Where("user_id = ?", userID).Delete(&models.Subscription{}).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Suppression des subscriptions échouée dans DeleteAccount")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err := db.DB.Model(&models.Profile{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"email":      fmt.Sprintf("deleted_%v@deleted.invalid", userID),
		"full_name":  "Deleted User",
		"avatar_url": "",
	}).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Anonymisation du profil échouée dans DeleteAccount")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Compte supprimé avec succès dans DeleteAccount")
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
