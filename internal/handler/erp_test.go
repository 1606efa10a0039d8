package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithmfg/order-tracking/internal/erp"
	"github.com/zenithmfg/order-tracking/internal/model"
)

func erpStub(t *testing.T, payload map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestERPStatusEndpoints(t *testing.T) {
	lm := erpStub(t, map[string]any{"system": "logicmate", "healthy": true})
	facade := erp.NewFacade(
		erp.NewHTTPConnector(erp.SystemLogicMate, lm.URL, "", 2*time.Second),
		erp.NewHTTPConnector(erp.SystemSuntec, "http://127.0.0.1:1", "", 500*time.Millisecond),
	)
	h := NewERPHandler(testCfg, facade)

	t.Run("healthy system", func(t *testing.T) {
		rec := call(t, h.LogicMateStatus, `{}`, 1, model.RoleAdmin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"logicmate"`)
	})

	t.Run("unreachable system is an upstream failure, not an empty result", func(t *testing.T) {
		rec := call(t, h.SuntecStatus, `{}`, 1, model.RoleAdmin)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "upstream_failure", errCode(t, rec))
	})
}

func TestERPSyncAllPartial(t *testing.T) {
	lm := erpStub(t, map[string]any{"system": "logicmate"})
	facade := erp.NewFacade(
		erp.NewHTTPConnector(erp.SystemLogicMate, lm.URL, "", 2*time.Second),
		erp.NewHTTPConnector(erp.SystemSuntec, "http://127.0.0.1:1", "", 500*time.Millisecond),
	)
	h := NewERPHandler(testCfg, facade)

	rec := call(t, h.SyncAll, `{}`, 1, model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	var res erp.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Partial)
	assert.True(t, res.Systems[erp.SystemLogicMate].OK)
	assert.False(t, res.Systems[erp.SystemSuntec].OK)
}

func TestERPOrderDetails(t *testing.T) {
	lm := erpStub(t, map[string]any{"status": "shipped"})
	st := erpStub(t, map[string]any{"status": "delivered"})
	facade := erp.NewFacade(
		erp.NewHTTPConnector(erp.SystemLogicMate, lm.URL, "", 2*time.Second),
		erp.NewHTTPConnector(erp.SystemSuntec, st.URL, "", 2*time.Second),
	)
	h := NewERPHandler(testCfg, facade)

	t.Run("merged status follows precedence", func(t *testing.T) {
		rec := call(t, h.OrderDetails, `{"orderId":42}`, 1, model.RoleAdmin)
		require.Equal(t, http.StatusOK, rec.Code)

		var res erp.SyncResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "delivered", res.Systems["combined"].Data["status"])
	})

	t.Run("missing orderId", func(t *testing.T) {
		rec := call(t, h.OrderDetails, `{}`, 1, model.RoleAdmin)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_failed", errCode(t, rec))
	})
}
