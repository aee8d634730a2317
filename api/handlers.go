/*
handlers.go - HTTP API handlers for the salary allocation engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Workers:
    GET    /api/workers                      List all workers
    GET    /api/workers/{id}/contracts       Contracts grouped by company
    GET    /api/workers/{id}/hours           Calendar hours for ?period=YYYY-MM
    POST   /api/workers/{id}/calculate       Compute the salary allocation
    POST   /api/workers/{id}/autofill        Toggle calendar-hours auto-fill

  Other payments:
    GET    /api/workers/{id}/payments        Ledger items grouped by category
    POST   /api/workers/{id}/payments        Create a ledger item
    PUT    /api/workers/{id}/payments/{itemID}   Update a ledger item
    DELETE /api/workers/{id}/payments/{itemID}   Delete a ledger item

  Demo:
    POST   /api/demo/seed                    Load the demo data set

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Calendar: Hours-tracking API client (optional; nil degrades to empty)

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (engine, ledger, auto-fill)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  The calculation itself never fails on bad numbers; malformed amounts
  parse to zero inside the engine.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bracket2code/salary-engine/calendar"
	"github.com/bracket2code/salary-engine/payroll"
	"github.com/bracket2code/salary-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Calendar calendar.Fetcher
}

// NewHandler creates a new handler with the given store and calendar client.
// A nil fetcher is allowed; the hours endpoint then returns an empty map.
func NewHandler(store *sqlite.Store, fetcher calendar.Fetcher) *Handler {
	return &Handler{Store: store, Calendar: fetcher}
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers.
// GET /api/workers
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}

	dtos := make([]WorkerDTO, len(workers))
	for i, worker := range workers {
		dtos[i] = WorkerDTO{ID: worker.ID, Name: worker.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetContracts returns a worker's contracts grouped by company, in the
// order the breakdown will use.
// GET /api/workers/{id}/contracts
func (h *Handler) GetContracts(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	records, names, err := h.Store.WorkerContracts(r.Context(), workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contracts", err)
		return
	}

	groups := payroll.BuildCompanyGroups(records, names)
	writeJSON(w, http.StatusOK, toCompanyGroupDTOs(groups))
}

// GetCalendarHours proxies the hours-tracking API for one worker and
// period. A missing or failing upstream degrades to an empty map so the
// client can fall back to manual entry.
// GET /api/workers/{id}/hours?period=YYYY-MM
func (h *Handler) GetCalendarHours(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	period, err := calendar.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period, want YYYY-MM", err)
		return
	}

	if h.Calendar == nil {
		writeJSON(w, http.StatusOK, CalendarHoursDTO{})
		return
	}

	hours, err := h.Calendar.WorkedHours(r.Context(), workerID, period)
	if err != nil {
		// Calendar data is advisory. Report nothing rather than fail.
		writeJSON(w, http.StatusOK, CalendarHoursDTO{})
		return
	}
	writeJSON(w, http.StatusOK, fromCalendarHours(hours))
}

// =============================================================================
// CALCULATION
// =============================================================================

// Calculate runs the allocation for one worker. Contract inputs and
// manual fields come from the request; contracts and the other-payments
// ledger come from the store.
// POST /api/workers/{id}/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	records, names, err := h.Store.WorkerContracts(r.Context(), workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contracts", err)
		return
	}
	ledger, err := h.Store.WorkerLedger(r.Context(), workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payments", err)
		return
	}

	result := payroll.ComputeAllocation(payroll.ComputeInput{
		Groups:       payroll.BuildCompanyGroups(records, names),
		Inputs:       toContractInputs(req.ContractInputs),
		Ledger:       ledger,
		Manual:       toManualFields(req.ManualFields),
		CompanyNames: names,
	})
	writeJSON(w, http.StatusOK, toResultDTO(result))
}

// =============================================================================
// AUTO-FILL
// =============================================================================

// ToggleAutoFill enables or disables calendar-hours auto-fill for one
// company group, or for all of them when no company key is given. The
// endpoint is stateless: the caller sends the current state and inputs
// and gets back the rewritten versions.
// POST /api/workers/{id}/autofill
func (h *Handler) ToggleAutoFill(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req ToggleAutoFillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	records, names, err := h.Store.WorkerContracts(r.Context(), workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contracts", err)
		return
	}
	groups := payroll.BuildCompanyGroups(records, names)

	state := toAutoFillState(req.State)
	inputs := toContractInputs(req.ContractInputs)
	hours := toCalendarHours(req.CalendarHours)

	if req.CompanyKey == "" {
		inputs = state.ToggleAll(inputs, groups, req.Enabled, hours)
	} else {
		key := payroll.CompanyKey(req.CompanyKey)
		group, ok := findGroup(groups, key)
		if !ok {
			writeError(w, http.StatusNotFound, "Company group not found", nil)
			return
		}
		inputs = state.Toggle(inputs, group, req.Enabled, hours.For(key))
	}

	writeJSON(w, http.StatusOK, ToggleAutoFillResponse{
		ContractInputs: fromContractInputs(inputs),
		State:          fromAutoFillState(state),
	})
}

func findGroup(groups []payroll.CompanyGroup, key payroll.CompanyKey) (payroll.CompanyGroup, bool) {
	for _, g := range groups {
		if g.CompanyKey == key {
			return g, true
		}
	}
	return payroll.CompanyGroup{}, false
}

// =============================================================================
// OTHER PAYMENTS
// =============================================================================

// ListPayments returns a worker's ledger items grouped by category. Every
// category is present in the response, empty ones as empty lists.
// GET /api/workers/{id}/payments
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	ledger, err := h.Store.WorkerLedger(r.Context(), workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payments", err)
		return
	}

	out := make(map[string][]PaymentItemDTO, len(payroll.Categories))
	for _, cat := range payroll.Categories {
		items := ledger.Items(cat)
		dtos := make([]PaymentItemDTO, len(items))
		for i, item := range items {
			dtos[i] = toPaymentItemDTO(cat, item)
		}
		out[string(cat)] = dtos
	}
	writeJSON(w, http.StatusOK, out)
}

// CreatePayment adds a ledger item for a worker. The amount is stored
// verbatim, even when it does not parse as a number yet.
// POST /api/workers/{id}/payments
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")

	var req SavePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, cat, err := paymentFromRequest(uuid.NewString(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown category", err)
		return
	}

	if err := h.Store.SavePayment(r.Context(), workerID, cat, item); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentItemDTO(cat, item))
}

// UpdatePayment replaces a ledger item in full.
// PUT /api/workers/{id}/payments/{itemID}
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemID")

	var req SavePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, cat, err := paymentFromRequest(itemID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown category", err)
		return
	}

	if err := h.Store.SavePayment(r.Context(), workerID, cat, item); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentItemDTO(cat, item))
}

// DeletePayment removes a ledger item.
// DELETE /api/workers/{id}/payments/{itemID}
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemID")

	err := h.Store.DeletePayment(r.Context(), workerID, itemID)
	if errors.Is(err, payroll.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func paymentFromRequest(id string, req SavePaymentRequest) (payroll.OtherPaymentItem, payroll.Category, error) {
	cat := payroll.Category(req.Category)
	if !cat.Valid() {
		return payroll.OtherPaymentItem{}, "", payroll.ErrUnknownCategory
	}

	method := payroll.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = payroll.PaymentBank
	}

	return payroll.OtherPaymentItem{
		ID:            id,
		Label:         req.Label,
		Amount:        req.Amount,
		CompanyKey:    payroll.CompanyKey(req.CompanyKey),
		PaymentMethod: method,
	}, cat, nil
}

// =============================================================================
// DEMO DATA
// =============================================================================

// SeedDemo loads the demo workers, companies, contracts and payments.
// Safe to call repeatedly.
// POST /api/demo/seed
func (h *Handler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Seed(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed demo data", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "seeded"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
