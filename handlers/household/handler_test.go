package household

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

func TestCreateHousehold_RequiresHouseholdPremium(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(mock.NewRows([]string{"id", "email", "subscription_tier", "subscription_status", "created_at", "updated_at"}).
			AddRow("user_2abc", "ada@example.com", "premium", "active", now, now))

	r := testutils.SetupTestRouter()
	r.POST("/households", authAs("user_2abc"), CreateHousehold)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/households", map[string]string{"name": "Chez nous"}))

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHousehold(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(mock.NewRows([]string{"id", "email", "subscription_tier", "subscription_status", "created_at", "updated_at"}).
			AddRow("user_2abc", "ada@example.com", "household_premium", "active", now, now))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "households"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("11111111-1111-1111-1111-111111111111"))
	mock.ExpectCommit()

	// le créateur devient membre owner dans la foulée
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "household_members"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("22222222-2222-2222-2222-222222222222"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/households", authAs("user_2abc"), CreateHousehold)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/households", map[string]string{"name": "Chez nous"}))

	assert.Equal(t, http.StatusCreated, resp.Code)

	var household map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &household)
	assert.Equal(t, "Chez nous", household["name"])

	inviteCode, _ := household["inviteCode"].(string)
	assert.Len(t, inviteCode, 8)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinHousehold_OwnerTierGatesNewMembers(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "households"`).
		WillReturnRows(mock.NewRows([]string{"id", "owner_id", "name", "invite_code", "created_at", "updated_at"}).
			AddRow("11111111-1111-1111-1111-111111111111", "user_owner", "Chez nous", "ABCD1234", now, now))

	// le propriétaire a laissé expirer son plan foyer
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(mock.NewRows([]string{"id", "email", "subscription_tier", "subscription_status", "created_at", "updated_at"}).
			AddRow("user_owner", "owner@example.com", "basic", "canceled", now, now))

	r := testutils.SetupTestRouter()
	r.POST("/households/join", authAs("user_2abc"), JoinHousehold)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/households/join", map[string]string{"inviteCode": "abcd1234"}))

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinHousehold_AlreadyMember(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "households"`).
		WillReturnRows(mock.NewRows([]string{"id", "owner_id", "name", "invite_code", "created_at", "updated_at"}).
			AddRow("11111111-1111-1111-1111-111111111111", "user_owner", "Chez nous", "ABCD1234", now, now))

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(mock.NewRows([]string{"id", "email", "subscription_tier", "subscription_status", "created_at", "updated_at"}).
			AddRow("user_owner", "owner@example.com", "household_premium", "active", now, now))

	mock.ExpectQuery(`SELECT \* FROM "household_members"`).
		WillReturnRows(mock.NewRows([]string{"id", "household_id", "user_id", "role", "created_at"}).
			AddRow("22222222-2222-2222-2222-222222222222", "11111111-1111-1111-1111-111111111111", "user_2abc", "member", now))

	r := testutils.SetupTestRouter()
	r.POST("/households/join", authAs("user_2abc"), JoinHousehold)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/households/join", map[string]string{"inviteCode": "ABCD1234"}))

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinHousehold_InvalidCode(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "households"`).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.POST("/households/join", authAs("user_2abc"), JoinHousehold)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodPost, "/households/join", map[string]string{"inviteCode": "ZZZZ9999"}))

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHouseholdMembers_NonMemberForbidden(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "household_members"`).
		WillReturnError(gorm.ErrRecordNotFound)

	r := testutils.SetupTestRouter()
	r.GET("/households/:householdId/members", authAs("user_2abc"), GetHouseholdMembers)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodGet, "/households/11111111-1111-1111-1111-111111111111/members", nil))

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveHousehold_OwnerCannotLeave(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "household_members"`).
		WillReturnRows(mock.NewRows([]string{"id", "household_id", "user_id", "role", "created_at"}).
			AddRow("22222222-2222-2222-2222-222222222222", "11111111-1111-1111-1111-111111111111", "user_2abc", "owner", now))

	r := testutils.SetupTestRouter()
	r.DELETE("/households/:householdId/leave", authAs("user_2abc"), LeaveHousehold)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, jsonRequest(t, http.MethodDelete, "/households/11111111-1111-1111-1111-111111111111/leave", nil))

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
