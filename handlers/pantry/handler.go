package pantry

import (
	"net/http"
	"time"

	"mealsaver-backend/db"
	"mealsaver-backend/models"
	"mealsaver-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreatePantryItem adds an item to the user's pantry
// @Summary Add a pantry item
// @Description Create a pantry item for the authenticated user
// @Tags pantry
// @Accept json
// @Produce json
// @Param item body models.PantryItemInput true "Item to create"
// @Security BearerAuth
// @Success 201 {object} models.PantryItem
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /pantry/items [post]
func CreatePantryItem(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.PantryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	item := models.PantryItem{
		UserID:            userID.(string),
		HouseholdID:       input.HouseholdID,
		StorageLocationID: input.StorageLocationID,
		Name:              input.Name,
		Category:          input.Category,
		Quantity:          input.Quantity,
		Unit:              input.Unit,
		ExpirationDate:    input.ExpirationDate,
	}

	if err := db.DB.Create(&item).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Création de l'item échouée dans CreatePantryItem")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Journal: l'ajout alimente aussi les statistiques
	event := models.PantryEvent{
		UserID:     userID.(string),
		ItemID:     &item.ID,
		ItemName:   item.Name,
		EventType:  models.PantryEventAdded,
		Quantity:   item.Quantity,
		OccurredAt: time.Now(),
	}
	if err := db.DB.Create(&event).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Journalisation de l'ajout échouée dans CreatePantryItem")
	}

	utils.LogSuccessWithUser(userID, "Item créé avec succès dans CreatePantryItem")
	c.JSON(http.StatusCreated, item)
}

// GetPantryItems lists the user's pantry items
// @Summary List pantry items
// @Description Return all pantry items of the authenticated user
// @Tags pantry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PantryItem
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /pantry/items [get]
func GetPantryItems(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var items []models.PantryItem
	err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Erreur lors de la récupération des items dans GetPantryItems")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UpdatePantryItem updates one pantry item
// @Summary Update a pantry item
// @Description Update a pantry item owned by the authenticated user
// @Tags pantry
// @Accept json
// @Produce json
// @Param itemId path string true "ID of the item"
// @Param item body models.PantryItemInput true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Item updated successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your item"
// @Failure 404 {object} map[string]string "error: Item not found"
// @Router /pantry/items/{itemId} [put]
func UpdatePantryItem(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	itemId := c.Param("itemId")
	if _, err := uuid.Parse(itemId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.PantryItem
	if err := db.DB.First(&item, "id = ?", itemId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if item.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this item"})
		return
	}

	var input models.PantryItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	err := db.DB.Model(&item).Updates(map[string]interface{}{
		"name":                input.Name,
		"category":            input.Category,
		"quantity":            input.Quantity,
		"unit":                input.Unit,
		"storage_location_id": input.StorageLocationID,
		"expiration_date":     input.ExpirationDate,
	}).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Mise à jour de l'item échouée dans UpdatePantryItem")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully"})
}

// DeletePantryItem removes one pantry item
// @Summary Delete a pantry item
// @Description Delete a pantry item owned by the authenticated user
// @Tags pantry
// @Accept json
// @Produce json
// @Param itemId path string true "ID of the item"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Item deleted successfully"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Failure 403 {object} map[string]string "error: Not your item"
// @Failure 404 {object} map[string]string "error: Item not found"
// @Router /pantry/items/{itemId} [delete]
func DeletePantryItem(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	itemId := c.Param("itemId")
	if _, err := uuid.Parse(itemId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.PantryItem
	if err := db.DB.First(&item, "id = ?", itemId).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	if item.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this item"})
		return
	}

	if err := db.DB.Delete(&item).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Suppression de l'item échouée dans DeletePantryItem")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

type PantryEventInput struct {
	ItemID    *string `json:"itemId"`
	ItemName  string  `json:"itemName"`
	EventType string  `json:"eventType" binding:"required"`
	Quantity  float64 `json:"quantity"`
}

// CreatePantryEvent appends a consumption or waste event
// @Summary Record a pantry event
// @Description Append a consumed/wasted/added event to the user's journal
// @Tags pantry
// @Accept json
// @Produce json
// @Param event body PantryEventInput true "Event to record"
// @Security BearerAuth
// @Success 201 {object} models.PantryEvent
// @Failure 400 {object} map[string]string "error: Invalid event type"
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /pantry/events [post]
func CreatePantryEvent(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input PantryEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	eventType := models.PantryEventType(input.EventType)
	if eventType != models.PantryEventAdded && eventType != models.PantryEventConsumed && eventType != models.PantryEventWasted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event type, expected added, consumed or wasted"})
		return
	}

	event := models.PantryEvent{
		UserID:     userID.(string),
		ItemID:     input.ItemID,
		ItemName:   input.ItemName,
		EventType:  eventType,
		Quantity:   input.Quantity,
		OccurredAt: time.Now(),
	}

	if err := db.DB.Create(&event).Error; err != nil {
		utils.LogErrorWithUser(userID, err, "Création de l'événement échouée dans CreatePantryEvent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	utils.LogSuccessWithUser(userID, "Événement enregistré avec succès dans CreatePantryEvent")
	c.JSON(http.StatusCreated, event)
}

// GetPantryAnalytics buckets the user's events for the charts
// @Summary Food waste analytics
// @Description Bucket consumed vs wasted events into daily (week) or weekly (month) counts
// @Tags pantry
// @Accept json
// @Produce json
// @Param period query string false "week or month" default(week)
// @Security BearerAuth
// @Success 200 {object} AnalyticsResult
// @Failure 401 {object} map[string]string "error: Unauthorized"
// @Router /pantry/analytics [get]
func GetPantryAnalytics(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	period := c.DefaultQuery("period", "week")
	if period != "week" && period != "month" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period, expected week or month"})
		return
	}

	now := time.Now()
	cutoff := now.AddDate(0, 0, -7)
	if period == "month" {
		cutoff = now.AddDate(0, -1, 0)
	}

	var events []models.PantryEvent
	err := db.DB.Where("user_id = ? AND occurred_at >= ?", userID, cutoff).
		Order("occurred_at ASC").Find(&events).Error
	if err != nil {
		utils.LogErrorWithUser(userID, err, "Erreur lors de la récupération des événements dans GetPantryAnalytics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := buildAnalytics(events, period, now)
	c.JSON(http.StatusOK, result)
}
