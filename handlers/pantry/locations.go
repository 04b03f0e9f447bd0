package pantry

import (
	"net/http"

	"mealsaver-backend/db"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StorageLocationInput struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}

// CreateStorageLocation adds a storage location (fridge, freezer, pantry)
// @Summary Create a storage location
// @Tags pantry
// @Accept json
// @Produce json
// @Param location body StorageLocationInput true "Location to create"
// @Security BearerAuth
// @Success 201 {object} models.StorageLocation
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /pantry/locations [post]
func CreateStorageLocation(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input StorageLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	location := models.StorageLocation{
		UserID: userID.(string),
		Name:   input.Name,
		Type:   input.Type,
	}

	if err := db.DB.Create(&location).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Création de l'emplacement échouée dans CreateStorageLocation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, location)
}

// GetStorageLocations lists the user's storage locations
// @Summary List storage locations
// @Tags pantry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.StorageLocation
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /pantry/locations [get]
func GetStorageLocations(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var locations []models.StorageLocation
	err := db.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&locations).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Erreur lors de la récupération des emplacements dans GetStorageLocations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// DeleteStorageLocation removes a storage location
// @Summary Delete a storage location
// @Tags pantry
// @Accept json
// @Produce json
// @Param locationId path string true "ID of the location"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Location deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your location"
// @Failure 404 {object} map[string]string "error: Location not found"
// @Router /pantry/locations/{locationId} [delete]
func DeleteStorageLocation(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	locationId := c.Param("locationId")
	if _, err := uuid.Parse(locationId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	var location models.StorageLocation
	if err := db.DB.First(&location, "id = ?", locationId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}
	if location.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this location"})
		return
	}

	if err := db.DB.Delete(&location).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Suppression de l'emplacement échouée dans DeleteStorageLocation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}
