package household

import (
	"net/http"
	"strings"

	"mealsaver-backend/db"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateHouseholdInput struct {
	Name string `json:"name" binding:"required"`
}

type JoinHouseholdInput struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// CreateHousehold creates a household owned by the connected user
// @Summary Create a household
// @Description Create a household and register the creator as owner. Requires the household_premium tier.
// @Tags households
// @Accept json
// @Produce json
// @Param household body CreateHouseholdInput true "Household to create"
// @Security BearerAuth
// @Success 201 {object} models.Household
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Household premium required"
// @Router /households [post]
func CreateHousehold(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input CreateHouseholdInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var profile models.Profile
	if err := db.DB.First(&profile, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if profile.SubscriptionTier != models.TierHouseholdPremium {
		utils.LogErrorWithUser(userID, nil, "Tier insuffisant dans CreateHousehold")
		c.JSON(http.StatusForbidden, gin.H{"error": "The household_premium plan is required to create a household"})
		return
	}

	household := models.Household{
		OwnerID:    userID.(string),
		Name:       input.Name,
		InviteCode: strings.ToUpper(uuid.NewString()[:8]),
	}

	if err := db.DB.Create(&household).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Création du foyer échouée dans CreateHousehold")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	member := models.HouseholdMember{
		HouseholdID: household.ID,
		UserID:      userID.(string),
		Role:        models.RoleOwner,
	}
	if err := db.DB.Create(&member).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Enregistrement du propriétaire échoué dans CreateHousehold")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Foyer créé avec succès dans CreateHousehold")
	c.JSON(http.StatusCreated, household)
}

// JoinHousehold joins a household by invite code
// @Summary Join a household
// @Description Join a household using its invite code. The owner must hold the household_premium tier.
// @Tags households
// @Accept json
// @Produce json
// @Param join body JoinHouseholdInput true "Invite code"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Joined household successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Owner plan insufficient"
// @Failure 404 {object} map[string]string "error: Invalid invite code"
// @Failure 409 {object} map[string]string "error: Already a member"
// @Router /households/join [post]
func JoinHousehold(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input JoinHouseholdInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var household models.Household
	if err := db.DB.First(&household, "invite_code = ?", strings.ToUpper(input.InviteCode)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite code"})
		return
	}

	// Le partage reste un avantage du plan foyer: on vérifie le tier
	// du propriétaire, pas celui du membre qui rejoint
	var owner models.Profile
	if err := db.DB.First(&owner, "id = ?", household.OwnerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Household owner not found"})
		return
	}
	if owner.SubscriptionTier != models.TierHouseholdPremium {
		c.JSON(http.StatusForbidden, gin.H{"error": "The household owner's plan does not allow new members"})
		return
	}

	var existing models.HouseholdMember
	if err := db.DB.First(&existing, "household_id = ? AND user_id = ?", household.ID, userID).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already a member of this household"})
		return
	}

	member := models.HouseholdMember{
		HouseholdID: household.ID,
		UserID:      userID.(string),
		Role:        models.RoleMember,
	}
	if err := db.DB.Create(&member).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Adhésion au foyer échouée dans JoinHousehold")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Foyer rejoint avec succès dans JoinHousehold")
	c.JSON(http.StatusOK, gin.H{"message": "Joined household successfully", "householdId": household.ID})
}

// GetHouseholdMembers lists the members of a household
// @Summary List household members
// @Tags households
// @Accept json
// @Produce json
// @Param householdId path string true "ID of the household"
// @Security BearerAuth
// @Success 200 {array} models.HouseholdMember
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not a member"
// @Router /households/{householdId}/members [get]
func GetHouseholdMembers(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	householdId := c.Param("householdId")
	if _, err := uuid.Parse(householdId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid household ID"})
		return
	}

	var membership models.HouseholdMember
	if err := db.DB.First(&membership, "household_id = ? AND user_id = ?", householdId, userID).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this household"})
		return
	}

	var members []models.HouseholdMember
	err := db.DB.Where("household_id = ?", householdId).Order("created_at ASC").Find(&members).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Erreur lors de la récupération des membres dans GetHouseholdMembers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// LeaveHousehold removes the connected user from a household
// @Summary Leave a household
// @Tags households
// @Accept json
// @Produce json
// @Param householdId path string true "ID of the household"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Left household successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 404 {object} map[string]string "error: Not a member"
// @Failure 409 {object} map[string]string "error: Owner cannot leave"
// @Router /households/{householdId}/leave [delete]
func LeaveHousehold(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	householdId := c.Param("householdId")
	if _, err := uuid.Parse(householdId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid household ID"})
		return
	}

	var membership models.HouseholdMember
	if err := db.DB.First(&membership, "household_id = ? AND user_id = ?", householdId, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "You are not a member of this household"})
		return
	}
	if membership.Role == models.RoleOwner {
		c.JSON(http.StatusConflict, gin.H{"error": "The owner cannot leave their own household"})
		return
	}

	if err := db.DB.Delete(&membership).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Départ du foyer échoué dans LeaveHousehold")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left household successfully"})
}
