package filtering

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportfilter/internal/logger"
	"reportfilter/internal/session"
	apperrors "reportfilter/pkg/errors"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	router := gin.New()
	NewHandler(f.svc, logger.NopLogger()).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func reportPath(name string, parts ...string) string {
	p := "/api/v1/reports/" + url.PathEscape(name)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func TestHandler_ListReports(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reports []ReportSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reports))
	assert.Len(t, reports, 2)
}

func TestHandler_GetFilterSet(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, reportPath("BOQ Report", "filters"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Report  string `json:"report"`
		Filters []struct {
			Fieldname string   `json:"fieldname"`
			DependsOn []string `json:"depends_on"`
		} `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "BOQ Report", body.Report)
	require.Len(t, body.Filters, 3)
	assert.Equal(t, "sales_order", body.Filters[1].Fieldname)
	assert.Equal(t, []string{"project"}, body.Filters[1].DependsOn)

	w = doJSON(t, router, http.MethodGet, reportPath("Stock Ledger", "filters"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ComputeRestriction(t *testing.T) {
	router := newTestRouter(t)
	path := reportPath("BOQ Report", "filters", "sales_order", "restriction")

	w := doJSON(t, router, http.MethodPost, path, RestrictionRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"restriction":null}`, w.Body.String())

	w = doJSON(t, router, http.MethodPost, path, map[string]interface{}{
		"values": map[string]string{"project": "PROJ-0001"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"restriction": {"conditions": [{"field": "project", "equals": "PROJ-0001"}]},
		"filters": {"project": "PROJ-0001"}
	}`, w.Body.String())

	w = doJSON(t, router, http.MethodPost, reportPath("BOQ Report", "filters", "project", "restriction"), RestrictionRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.ErrValidation.Code, resp.ErrorCode)
}

func TestHandler_GetOptions(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, reportPath("BOQ Report", "filters", "task", "options"), OptionsRequest{
		Values: map[string]string{"project": "PROJ-0001"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result OptionsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Task", result.EntityType)
	assert.Equal(t, []string{"TASK-0001"}, optionValues(&result))

	w = doJSON(t, router, http.MethodPost, reportPath("BOQ Report", "filters", "task", "options"), OptionsRequest{Limit: -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SessionFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", OpenSessionRequest{Report: "BOQ Report"})
	require.Equal(t, http.StatusCreated, w.Code)

	var sess session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.ID)
	base := "/api/v1/sessions/" + sess.ID

	w = doJSON(t, router, http.MethodPut, base+"/values/project", SetValueRequest{Value: "PROJ-0002"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, base+"/filters/sales_order/options?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result OptionsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []string{"SO-0002"}, optionValues(&result))

	w = doJSON(t, router, http.MethodPut, base+"/values/sales_order", SetValueRequest{Value: "SO-0002"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, base+"/values/project", SetValueRequest{Value: ""})
	require.Equal(t, http.StatusOK, w.Code)
	var update SessionUpdate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &update))
	assert.Equal(t, []string{"sales_order"}, update.StaleDependents)

	w = doJSON(t, router, http.MethodGet, base+"/filters/sales_order/options?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPut, base+"/values/customer", SetValueRequest{Value: "ACME"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_OpenSessionValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/sessions", OpenSessionRequest{Report: "Stock Ledger"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
