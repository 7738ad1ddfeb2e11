package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/indexdata/catbridge/catalog"
	"github.com/indexdata/catbridge/common"
	"github.com/indexdata/catbridge/driver"
)

type ApiHandler struct {
	driver driver.Driver
}

func NewApiHandler(d driver.Driver) ApiHandler {
	return ApiHandler{driver: d}
}

type errorResponse struct {
	Error string `json:"error"`
}

type renewalsRequest struct {
	ItemIds []string `json:"item_ids"`
}

func (a *ApiHandler) requestCtx(r *http.Request, operation string) common.ExtendedContext {
	return common.CreateExtCtxWithLogArgsAndHandler(r.Context(), &common.LoggerArgs{
		RequestId: uuid.New().String(),
		Operation: operation,
	}, common.DefaultLogHandler)
}

func writeJson(ctx common.ExtendedContext, w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		ctx.Logger().Warn("failed to write response", "error", err)
	}
}

// writeError maps driver failures onto the service's HTTP surface:
// rejected patron credentials are 401, business errors reported by the
// catalog are 409, everything else is an upstream failure.
func writeError(ctx common.ExtendedContext, w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrAuthRejected) {
		writeJson(ctx, w, http.StatusUnauthorized, errorResponse{Error: "invalid patron credentials"})
		return
	}
	var catalogError *driver.CatalogError
	if errors.As(err, &catalogError) {
		writeJson(ctx, w, http.StatusConflict, errorResponse{Error: catalogError.Error()})
		return
	}
	ctx.Logger().Error("catalog operation failed", "error", err)
	writeJson(ctx, w, http.StatusBadGateway, errorResponse{Error: "catalog request failed"})
}

// patron resolves the authenticated patron from HTTP basic auth. Every
// patron-scoped call verifies the credentials against the catalog.
func (a *ApiHandler) patron(ctx common.ExtendedContext, w http.ResponseWriter, r *http.Request) *driver.Patron {
	username, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="catbridge"`)
		writeJson(ctx, w, http.StatusUnauthorized, errorResponse{Error: "patron credentials required"})
		return nil
	}
	patron, err := a.driver.PatronLogin(ctx, username, password)
	if err != nil {
		writeError(ctx, w, err)
		return nil
	}
	return patron
}

func (a *ApiHandler) HandlePatronLogin(w http.ResponseWriter, r *http.Request) {
	ctx := a.requestCtx(r, "patron_login")
	patron := a.patron(ctx, w, r)
	if patron == nil {
		return
	}
	writeJson(ctx, w, http.StatusOK, patron)
}

func (a *ApiHandler) HandleHolds(w http.ResponseWriter, r *http.Request) {
	ctx := a.requestCtx(r, "holds")
	patron := a.patron(ctx, w, r)
	if patron == nil {
		return
	}
	holds, err := a.driver.Holds(ctx, patron)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJson(ctx, w, http.StatusOK, holds)
}

func (a *ApiHandler) HandlePlaceHold(w http.ResponseWriter, r *http.Request) {
	ctx := a.requestCtx(r, "place_hold")
	patron := a.patron(ctx, w, r)
	if patron == nil {
		return
	}
	var holdRequest driver.HoldRequest
	err := json.NewDecoder(r.Body).Decode(&holdRequest)
	if err != nil {
		writeJson(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if holdRequest.BibId == "" {
		writeJson(ctx, w, http.StatusBadRequest, errorResponse{Error: "biblio_id must be specified"})
		return
	}
	hold, err := a.driver.PlaceHold(ctx, patron, holdRequest)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJson(ctx, w, http.StatusCreated, hold)
}

func (a *ApiHandler) HandleCancelHold(w http.ResponseWriter, r *http.Request) {
	ctx := a.requestCtx(r, "cancel_hold")
	patron := a.patron(ctx, w, r)
	if patron == nil {
		return
	}
	err := a.driver.CancelHold(ctx, patron, r.PathValue("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *ApiHandler) HandleFines(w http.ResponseWriter, r *http.Request) {
	ctx := a.requestCtx(r, "fines")
	patron := a.patron(ctx, w, r)
	if patron == nil {
		return
	}
	fines, err := a.driver.Fines(ctx, patron)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJson(ctx, w, http.StatusOK, fines)
}

func (a *ApiHandler) HandleRenewals(w http.ResponseWriter, r *http.Request) {
	ctx := a.requestCtx(r, "renewals")
	patron := a.patron(ctx, w, r)
	if patron == nil {
		return
	}
	var request renewalsRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		writeJson(ctx, w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if len(request.ItemIds) == 0 {
		writeJson(ctx, w, http.StatusBadRequest, errorResponse{Error: "item_ids must be specified"})
		return
	}
	results, err := a.driver.Renew(ctx, patron, request.ItemIds)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJson(ctx, w, http.StatusOK, results)
}

func (a *ApiHandler) HandlePickupLocations(w http.ResponseWriter, r *http.Request) {
	ctx := a.requestCtx(r, "pickup_locations")
	locations, err := a.driver.PickupLocations(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJson(ctx, w, http.StatusOK, locations)
}

func (a *ApiHandler) HandleItemStatus(w http.ResponseWriter, r *http.Request) {
	ctx := a.requestCtx(r, "item_status")
	items, err := a.driver.ItemStatus(ctx, r.PathValue("bibId"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJson(ctx, w, http.StatusOK, items)
}
