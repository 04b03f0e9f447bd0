package pantry

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"mealsaver-backend/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreatePantryItem(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "pantry_items"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("11111111-1111-1111-1111-111111111111"))
	mock.ExpectCommit()

	// l'ajout est aussi journalisé pour les statistiques
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "pantry_events"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("22222222-2222-2222-2222-222222222222"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/pantry/items", authAs("user_2abc"), CreatePantryItem)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/pantry/items", map[string]interface{}{
		"name":     "Lait",
		"category": "dairy",
		"quantity": 1,
		"unit":     "L",
	}))

	assert.Equal(t, http.StatusCreated, resp.Code)

	var item map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &item)
	assert.Equal(t, "Lait", item["name"])
	assert.Equal(t, "user_2abc", item["userId"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePantryItem_MissingName(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/pantry/items", authAs("user_2abc"), CreatePantryItem)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/pantry/items", map[string]interface{}{
		"category": "dairy",
	}))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePantryItem_Unauthenticated(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/pantry/items", CreatePantryItem)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/pantry/items", map[string]interface{}{
		"name": "Lait",
	}))

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPantryItems(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "pantry_items" WHERE user_id`).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "name", "category", "quantity", "unit", "created_at", "updated_at"}).
			AddRow("11111111-1111-1111-1111-111111111111", "user_2abc", "Lait", "dairy", 1.0, "L", now, now).
			AddRow("33333333-3333-3333-3333-333333333333", "user_2abc", "Tomates", "produce", 6.0, "pcs", now, now))

	r := testutils.SetupTestRouter()
	r.GET("/pantry/items", authAs("user_2abc"), GetPantryItems)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodGet, "/pantry/items", nil))

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string][]map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Len(t, respBody["items"], 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePantryItem_NotOwner(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "pantry_items"`).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "name", "created_at", "updated_at"}).
			AddRow("11111111-1111-1111-1111-111111111111", "user_other", "Lait", now, now))

	r := testutils.SetupTestRouter()
	r.PUT("/pantry/items/:itemId", authAs("user_2abc"), UpdatePantryItem)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPut, "/pantry/items/11111111-1111-1111-1111-111111111111", map[string]interface{}{
		"name": "Lait entier",
	}))

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePantryItem_InvalidId(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.DELETE("/pantry/items/:itemId", authAs("user_2abc"), DeletePantryItem)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodDelete, "/pantry/items/pas-un-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePantryItem_NotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "pantry_items"`).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.DELETE("/pantry/items/:itemId", authAs("user_2abc"), DeletePantryItem)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodDelete, "/pantry/items/11111111-1111-1111-1111-111111111111", nil))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePantryEvent_InvalidType(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/pantry/events", authAs("user_2abc"), CreatePantryEvent)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/pantry/events", map[string]interface{}{
		"itemName":  "Lait",
		"eventType": "expired",
	}))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePantryEvent(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "pantry_events"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("22222222-2222-2222-2222-222222222222"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/pantry/events", authAs("user_2abc"), CreatePantryEvent)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/pantry/events", map[string]interface{}{
		"itemName":  "Lait",
		"eventType": "wasted",
		"quantity":  1,
	}))

	assert.Equal(t, http.StatusCreated, resp.Code)

	var event map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &event)
	assert.Equal(t, "wasted", event["eventType"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPantryAnalytics_InvalidPeriod(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.GET("/pantry/analytics", authAs("user_2abc"), GetPantryAnalytics)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodGet, "/pantry/analytics?period=year", nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPantryAnalytics_Week(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "pantry_events" WHERE user_id`).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "item_name", "event_type", "quantity", "occurred_at", "created_at"}).
			AddRow("22222222-2222-2222-2222-222222222222", "user_2abc", "Lait", "consumed", 1.0, now, now).
			AddRow("44444444-4444-4444-4444-444444444444", "user_2abc", "Tomates", "wasted", 2.0, now, now))

	r := testutils.SetupTestRouter()
	r.GET("/pantry/analytics", authAs("user_2abc"), GetPantryAnalytics)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodGet, "/pantry/analytics", nil))

	assert.Equal(t, http.StatusOK, resp.Code)

	var result AnalyticsResult
	json.Unmarshal(resp.Body.Bytes(), &result)
	assert.Equal(t, "week", result.Period)
	assert.Len(t, result.Buckets, 7)
	assert.Equal(t, 1, result.TotalConsumed)
	assert.Equal(t, 1, result.TotalWasted)
	assert.Equal(t, 0.5, result.WasteRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
