/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Worker listing and contract grouping
- Calculation endpoint (inputs from the request, ledger from the store)
- Payments CRUD over HTTP
- Stateless auto-fill toggling
- Calendar hours proxying and degradation
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracket2code/salary-engine/calendar"
	"github.com/bracket2code/salary-engine/payroll"
	"github.com/bracket2code/salary-engine/store/sqlite"
)

// =============================================================================
// FIXTURES
// =============================================================================

type fakeFetcher struct {
	hours payroll.CalendarHours
	err   error
}

func (f *fakeFetcher) WorkedHours(ctx context.Context, workerID string, period calendar.Period) (payroll.CalendarHours, error) {
	return f.hours, f.err
}

func newTestServer(t *testing.T, fetcher calendar.Fetcher) (*httptest.Server, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(NewRouter(NewHandler(store, fetcher)))
	t.Cleanup(srv.Close)
	return srv, store
}

// seedWorker stores one worker with contracts at two companies.
func seedWorker(t *testing.T, store *sqlite.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SaveWorker(ctx, sqlite.WorkerRecord{ID: "w1", Name: "María García"}))
	require.NoError(t, store.SaveCompany(ctx, "co-a", "Alpha SL"))
	require.NoError(t, store.SaveCompany(ctx, "co-b", "Beta SA"))
	require.NoError(t, store.SaveContract(ctx, sqlite.ContractRow{
		ID: "c1", WorkerID: "w1", CompanyID: "co-a", HasContract: true, Label: "Camarera",
	}))
	require.NoError(t, store.SaveContract(ctx, sqlite.ContractRow{
		ID: "c2", WorkerID: "w1", CompanyID: "co-b", HasContract: true, Label: "Cocinera",
	}))
}

func doJSON(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// =============================================================================
// WORKERS AND CONTRACTS
// =============================================================================

func TestListWorkers(t *testing.T) {
	// GIVEN: Two stored workers
	srv, store := newTestServer(t, nil)
	ctx := context.Background()
	require.NoError(t, store.SaveWorker(ctx, sqlite.WorkerRecord{ID: "w1", Name: "María García"}))
	require.NoError(t, store.SaveWorker(ctx, sqlite.WorkerRecord{ID: "w2", Name: "Juan López"}))

	// WHEN: Listing workers
	var workers []WorkerDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workers", nil, &workers)

	// THEN: Both come back
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, workers, 2)
}

func TestGetContracts_GroupedByCompany(t *testing.T) {
	// GIVEN: A worker with one contract at each of two companies
	srv, store := newTestServer(t, nil)
	seedWorker(t, store)

	// WHEN: Fetching the contract groups
	var groups []CompanyGroupDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workers/w1/contracts", nil, &groups)

	// THEN: Two groups in locale order, one entry each
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, groups, 2)
	assert.Equal(t, "Alpha SL", groups[0].CompanyName)
	assert.Equal(t, "Beta SA", groups[1].CompanyName)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, "co-a:c1", groups[0].Entries[0].ContractKey)
	assert.Equal(t, "Camarera", groups[0].Entries[0].Label)
}

// =============================================================================
// CALCULATION
// =============================================================================

func TestCalculate_EndToEnd(t *testing.T) {
	// GIVEN: Contracts at two companies and a bonus pinned to one of them
	srv, store := newTestServer(t, nil)
	seedWorker(t, store)
	require.NoError(t, store.SavePayment(context.Background(), "w1", payroll.CategoryBonuses, payroll.OtherPaymentItem{
		ID: "p1", Label: "Objetivos", Amount: "50", CompanyKey: "co-a", PaymentMethod: payroll.PaymentBank,
	}))

	// WHEN: Calculating with per-contract hours and rates
	req := CalculateRequest{
		ContractInputs: map[string]ContractInputDTO{
			"co-a:c1": {Hours: "80", HourlyRate: "1"},
			"co-b:c2": {Hours: "40", HourlyRate: "1"},
		},
	}
	var result CalculationResultDTO
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers/w1/calculate", req, &result)

	// THEN: The bonus lands on its company and the sum invariant holds
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 170, result.TotalAmount, 0.0001)
	require.Len(t, result.CompanyBreakdown, 2)
	assert.Equal(t, "Alpha SL", result.CompanyBreakdown[0].Name)
	assert.InDelta(t, 130, result.CompanyBreakdown[0].Amount, 0.0001)
	assert.InDelta(t, 40, result.CompanyBreakdown[1].Amount, 0.0001)
	require.Len(t, result.CompanyBreakdown[0].OtherPayments, 1)
	assert.Equal(t, "Objetivos", result.CompanyBreakdown[0].OtherPayments[0].Label)

	sum := 0.0
	for _, a := range result.CompanyBreakdown {
		sum += a.Amount
	}
	assert.InDelta(t, result.TotalAmount, sum, 0.0001)
}

func TestCalculate_BadBody(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedWorker(t, store)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/workers/w1/calculate", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// PAYMENTS CRUD
// =============================================================================

func TestPayments_CRUD(t *testing.T) {
	// GIVEN: A stored worker
	srv, store := newTestServer(t, nil)
	seedWorker(t, store)
	base := srv.URL + "/api/workers/w1/payments"

	// WHEN: Creating a payment with a comma-decimal amount
	var created PaymentItemDTO
	resp := doJSON(t, http.MethodPost, base, SavePaymentRequest{
		Category: "bonuses", Label: "Festivo", Amount: "45,50",
	}, &created)

	// THEN: It is stored verbatim with a generated id and bank default,
	// and the response carries its category
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "bonuses", created.Category)
	assert.Equal(t, "45,50", created.Amount)
	assert.Equal(t, "bank", created.PaymentMethod)

	// WHEN: Listing
	var listed map[string][]PaymentItemDTO
	resp = doJSON(t, http.MethodGet, base, nil, &listed)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, listed["bonuses"], 1)
	assert.Equal(t, "bonuses", listed["bonuses"][0].Category)
	assert.Empty(t, listed["debts"])

	// WHEN: Updating in full
	var updated PaymentItemDTO
	resp = doJSON(t, http.MethodPut, base+"/"+created.ID, SavePaymentRequest{
		Category: "bonuses", Label: "Festivo", Amount: "60", PaymentMethod: "cash",
	}, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bonuses", updated.Category)
	assert.Equal(t, "60", updated.Amount)
	assert.Equal(t, "cash", updated.PaymentMethod)

	// WHEN: Deleting
	resp = doJSON(t, http.MethodDelete, base+"/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// THEN: A second delete is a 404
	resp = doJSON(t, http.MethodDelete, base+"/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreatePayment_UnknownCategory(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedWorker(t, store)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers/w1/payments", SavePaymentRequest{
		Category: "tips", Amount: "5",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// AUTO-FILL
// =============================================================================

func TestToggleAutoFill_StatelessRoundTrip(t *testing.T) {
	// GIVEN: A worker with one contract per company and calendar hours
	// for the first company only
	srv, store := newTestServer(t, nil)
	seedWorker(t, store)

	// WHEN: Enabling auto-fill for the first company
	toggle := ToggleAutoFillRequest{
		CompanyKey:    "co-a",
		Enabled:       true,
		CalendarHours: CalendarHoursDTO{"co-a": 84},
		ContractInputs: map[string]ContractInputDTO{
			"co-b:c2": {Hours: "40"},
		},
		State: AutoFillStateDTO{},
	}
	var out ToggleAutoFillResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers/w1/autofill", toggle, &out)

	// THEN: Its single entry holds the full hours; the other is untouched
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "84", out.ContractInputs["co-a:c1"].Hours)
	assert.Equal(t, "40", out.ContractInputs["co-b:c2"].Hours)
	assert.Contains(t, out.State.EnabledGroups, "co-a")
	assert.Equal(t, []string{"co-a:c1"}, out.State.AutoFilled["co-a"])

	// WHEN: Disabling with the returned state
	toggle.Enabled = false
	toggle.ContractInputs = out.ContractInputs
	toggle.State = out.State
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/workers/w1/autofill", toggle, &out)

	// THEN: Only the auto-filled entry is reset
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", out.ContractInputs["co-a:c1"].Hours)
	assert.Equal(t, "40", out.ContractInputs["co-b:c2"].Hours)
	assert.Empty(t, out.State.EnabledGroups)
}

func TestToggleAutoFill_UnknownGroup(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedWorker(t, store)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/workers/w1/autofill", ToggleAutoFillRequest{
		CompanyKey: "co-zzz", Enabled: true,
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// CALENDAR HOURS
// =============================================================================

func TestGetCalendarHours(t *testing.T) {
	// GIVEN: An upstream reporting hours for one company
	fetcher := &fakeFetcher{hours: payroll.CalendarHours{
		"co-a": decimal.NewFromInt(120),
	}}
	srv, store := newTestServer(t, fetcher)
	seedWorker(t, store)

	// WHEN: Fetching hours for a period
	var hours CalendarHoursDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workers/w1/hours?period=2026-08", nil, &hours)

	// THEN: The per-company map comes through
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 120, hours["co-a"], 0.0001)
}

func TestGetCalendarHours_UpstreamFailureDegrades(t *testing.T) {
	// GIVEN: A failing upstream
	srv, store := newTestServer(t, &fakeFetcher{err: errors.New("upstream down")})
	seedWorker(t, store)

	// WHEN/THEN: The endpoint answers 200 with no hours
	var hours CalendarHoursDTO
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workers/w1/hours?period=2026-08", nil, &hours)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, hours)
}

func TestGetCalendarHours_BadPeriod(t *testing.T) {
	srv, store := newTestServer(t, nil)
	seedWorker(t, store)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/workers/w1/hours?period=agosto", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
