package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/indexdata/catbridge/catalog"
	"github.com/indexdata/catbridge/common"
	"github.com/indexdata/catbridge/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingDriver returns the same error from every operation.
type failingDriver struct {
	err error
}

func (d *failingDriver) PatronLogin(ctx common.ExtendedContext, username string, password string) (*driver.Patron, error) {
	return nil, d.err
}

func (d *failingDriver) Holds(ctx common.ExtendedContext, patron *driver.Patron) ([]driver.Hold, error) {
	return nil, d.err
}

func (d *failingDriver) PlaceHold(ctx common.ExtendedContext, patron *driver.Patron, hold driver.HoldRequest) (*driver.Hold, error) {
	return nil, d.err
}

func (d *failingDriver) CancelHold(ctx common.ExtendedContext, patron *driver.Patron, holdId string) error {
	return d.err
}

func (d *failingDriver) Fines(ctx common.ExtendedContext, patron *driver.Patron) ([]driver.Fine, error) {
	return nil, d.err
}

func (d *failingDriver) Renew(ctx common.ExtendedContext, patron *driver.Patron, itemIds []string) ([]driver.RenewResult, error) {
	return nil, d.err
}

func (d *failingDriver) PickupLocations(ctx common.ExtendedContext) ([]driver.Location, error) {
	return nil, d.err
}

func (d *failingDriver) ItemStatus(ctx common.ExtendedContext, bibId string) ([]driver.ItemStatus, error) {
	return nil, d.err
}

func serveMux(d driver.Driver) *http.ServeMux {
	handler := NewApiHandler(d)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /patron/login", handler.HandlePatronLogin)
	mux.HandleFunc("GET /patron/holds", handler.HandleHolds)
	mux.HandleFunc("POST /patron/holds", handler.HandlePlaceHold)
	mux.HandleFunc("DELETE /patron/holds/{id}", handler.HandleCancelHold)
	mux.HandleFunc("GET /patron/fines", handler.HandleFines)
	mux.HandleFunc("POST /patron/renewals", handler.HandleRenewals)
	mux.HandleFunc("GET /pickup-locations", handler.HandlePickupLocations)
	mux.HandleFunc("GET /items/{bibId}/status", handler.HandleItemStatus)
	return mux
}

func doRequest(mux *http.ServeMux, method string, path string, body string, withAuth bool) *httptest.ResponseRecorder {
	var reader *strings.Reader = strings.NewReader(body)
	req := httptest.NewRequest(method, path, reader)
	if withAuth {
		req.SetBasicAuth("alice", "s1")
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestPatronLogin(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodPost, "/patron/login", "", true)
	assert.Equal(t, http.StatusOK, rr.Code)
	var patron map[string]any
	require.Nil(t, json.Unmarshal(rr.Body.Bytes(), &patron))
	assert.Equal(t, "alice", patron["username"])
	// the patron credential must never be serialized
	assert.NotContains(t, rr.Body.String(), "s1")
}

func TestPatronLoginNoAuth(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodPost, "/patron/login", "", false)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "Basic")
}

func TestPatronLoginRejected(t *testing.T) {
	mux := serveMux(&failingDriver{err: catalog.ErrAuthRejected})
	rr := doRequest(mux, http.MethodPost, "/patron/login", "", true)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid patron credentials")
}

func TestHolds(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodGet, "/patron/holds", "", true)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestPlaceHold(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodPost, "/patron/holds",
		`{"biblio_id": "b1", "pickup_library_id": "MAIN"}`, true)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"b1"`)
}

func TestPlaceHoldMissingBibId(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodPost, "/patron/holds", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "biblio_id must be specified")
}

func TestPlaceHoldBusinessError(t *testing.T) {
	mux := serveMux(&failingDriver{err: &driver.CatalogError{Message: "place hold failed", Detail: "hold already exists"}})
	rr := doRequest(mux, http.MethodPost, "/patron/holds", `{"biblio_id": "b1"}`, true)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "hold already exists")
}

func TestCancelHold(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodDelete, "/patron/holds/h1", "", true)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestFines(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodGet, "/patron/fines", "", true)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRenewals(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodPost, "/patron/renewals", `{"item_ids": ["i1", "i2"]}`, true)
	assert.Equal(t, http.StatusOK, rr.Code)
	var results []driver.RenewResult
	require.Nil(t, json.Unmarshal(rr.Body.Bytes(), &results))
	assert.Len(t, results, 2)
}

func TestRenewalsEmpty(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodPost, "/patron/renewals", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPickupLocations(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodGet, "/pickup-locations", "", false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Main Library")
}

func TestItemStatus(t *testing.T) {
	mux := serveMux(driver.CreateMockDriver())
	rr := doRequest(mux, http.MethodGet, "/items/b1/status", "", false)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "available")
}

func TestUpstreamFailure(t *testing.T) {
	mux := serveMux(&failingDriver{err: &catalog.ProtocolError{StatusCode: 502, Status: "502 Bad Gateway"}})
	rr := doRequest(mux, http.MethodGet, "/items/b1/status", "", false)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "catalog request failed")
}
