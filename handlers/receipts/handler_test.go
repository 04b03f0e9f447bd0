package receipts

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"mealsaver-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
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

func TestConnectGmail(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id-test")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret-test")
	t.Setenv("GOOGLE_REDIRECT_URL", "https://app.example.com/oauth/callback")

	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.GET("/receipts/gmail/connect", authAs("user_2abc"), ConnectGmail)

	req, _ := http.NewRequest(http.MethodGet, "/receipts/gmail/connect", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, "accounts.google.com")
	assert.Contains(t, body, "access_type=offline")
	assert.Contains(t, body, "prompt=consent")
	assert.Contains(t, body, url.QueryEscape("gmail.readonly"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectGmail_NotConfigured(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.GET("/receipts/gmail/connect", authAs("user_2abc"), ConnectGmail)

	req, _ := http.NewRequest(http.MethodGet, "/receipts/gmail/connect", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectGmail_Unauthenticated(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.GET("/receipts/gmail/connect", ConnectGmail)

	req, _ := http.NewRequest(http.MethodGet, "/receipts/gmail/connect", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisconnectGmail(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET "gmail_refresh_token"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.DELETE("/receipts/gmail", authAs("user_2abc"), DisconnectGmail)

	req, _ := http.NewRequest(http.MethodDelete, "/receipts/gmail", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
