package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	hash, err := HashAppKey("open-sesame", bcrypt.MinCost)
	require.NoError(t, err)
	return NewIssuer("test-secret", hash, time.Hour)
}

func TestIssueAndVerify(t *testing.T) {
	issuer := newTestIssuer(t)

	token, expiresAt, err := issuer.Issue("pixel-7", "open-sesame")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	device, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "pixel-7", device)
}

func TestIssueRejectsWrongKey(t *testing.T) {
	issuer := newTestIssuer(t)

	_, _, err := issuer.Issue("pixel-7", "wrong")
	assert.ErrorIs(t, err, ErrInvalidAppKey)

	_, _, err = issuer.Issue("  ", "open-sesame")
	assert.ErrorIs(t, err, ErrInvalidAppKey)
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	issuer := newTestIssuer(t)
	token, _, err := issuer.Issue("pixel-7", "open-sesame")
	require.NoError(t, err)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewIssuer("other-secret", "", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := newTestIssuer(t)

	router := gin.New()
	router.POST("/session", SessionHandler(issuer))
	router.POST("/guarded", RequireSession(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(DeviceIDKey))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/guarded", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body, _ := json.Marshal(map[string]string{"device_id": "pixel-7", "app_key": "open-sesame"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pixel-7", rec.Body.String())
}

func TestRequireSessionDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/open", RequireSession(nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
