package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithmfg/order-tracking/internal/config"
	"github.com/zenithmfg/order-tracking/internal/middleware"
	"github.com/zenithmfg/order-tracking/internal/model"
	"github.com/zenithmfg/order-tracking/internal/token"
)

var testCfg = config.Config{Env: "test", BcryptCost: 4, TokenTTL: 24 * time.Hour}

// call invokes a handler with a JSON body, optionally simulating an
// identity the authorization pipeline would have attached.
func call(t *testing.T, h echo.HandlerFunc, body string, uid uint64, role string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(middleware.CtxUserID, uid)
		c.Set(middleware.CtxRole, role)
	}
	require.NoError(t, h(c))
	return rec
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestLogin(t *testing.T) {
	users := newFakeUserStore()
	seeded := users.add("Administrator", "admin@zenith.com", "hunter2", model.RoleAdmin)
	codec := token.NewCodec("test-secret", testCfg.TokenTTL)
	h := NewAuthHandler(testCfg, codec, users)

	t.Run("valid credentials return user and verifiable token", func(t *testing.T) {
		rec := call(t, h.Login, `{"email":"admin@zenith.com","password":"hunter2"}`, 0, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp loginResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, seeded.ID, resp.User.ID)
		assert.Equal(t, model.RoleAdmin, resp.User.Role)

		id, err := codec.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, id.ID)
		assert.Equal(t, model.RoleAdmin, id.Role)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		rec := call(t, h.Login, `{"email":"Admin@Zenith.com","password":"hunter2"}`, 0, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"email":"admin@zenith.com"}`, `{"password":"hunter2"}`, `not json`} {
			rec := call(t, h.Login, body, 0, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Equal(t, "missing_credentials", errCode(t, rec), body)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := call(t, h.Login, `{"email":"admin@zenith.com","password":"wrong"}`, 0, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_credentials", errCode(t, rec))
	})

	t.Run("unknown email reported identically to wrong password", func(t *testing.T) {
		rec := call(t, h.Login, `{"email":"ghost@zenith.com","password":"hunter2"}`, 0, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid_credentials", errCode(t, rec))
	})
}

func TestMe(t *testing.T) {
	users := newFakeUserStore()
	u := users.add("Fred Factory", "factory@zenith.com", "pw", model.RoleFactory)
	h := NewAuthHandler(testCfg, token.NewCodec("s", time.Hour), users)

	rec := call(t, h.Me, `{}`, u.ID, u.Role)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"factory@zenith.com"`)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestGetAllUsersOmitsHashes(t *testing.T) {
	users := newFakeUserStore()
	users.add("A", "a@zenith.com", "pw-a", model.RoleAdmin)
	users.add("B", "b@zenith.com", "pw-b", model.RoleCustomer)
	h := NewAuthHandler(testCfg, token.NewCodec("s", time.Hour), users)

	rec := call(t, h.GetAll, `{}`, 1, model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Users []userPart `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
	assert.NotContains(t, rec.Body.String(), "$2a$") // bcrypt prefix
}

func TestResetPassword(t *testing.T) {
	users := newFakeUserStore()
	users.add("C", "c@zenith.com", "old-pw", model.RoleCustomer)
	codec := token.NewCodec("s", time.Hour)
	h := NewAuthHandler(testCfg, codec, users)

	rec := call(t, h.ResetPassword, `{"userId":1,"newPassword":"new-pw"}`, 9, model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	// Old password no longer works, new one does.
	rec = call(t, h.Login, `{"email":"c@zenith.com","password":"old-pw"}`, 0, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = call(t, h.Login, `{"email":"c@zenith.com","password":"new-pw"}`, 0, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	t.Run("unknown user", func(t *testing.T) {
		rec := call(t, h.ResetPassword, `{"userId":99,"newPassword":"x"}`, 9, model.RoleAdmin)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("missing password", func(t *testing.T) {
		rec := call(t, h.ResetPassword, `{"userId":1}`, 9, model.RoleAdmin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
