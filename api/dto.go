/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the decimal-based engine model from the wire contract: computed amounts
  cross the wire as plain float64, editable fields as the strings the user
  typed (so a half-written "12," round-trips untouched).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/engine.go: CalculationResult source type
*/
package api

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bracket2code/salary-engine/payroll"
)

// =============================================================================
// WORKERS AND CONTRACTS
// =============================================================================

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContractEntryDTO represents a single contract inside a company group.
type ContractEntryDTO struct {
	ContractKey       string  `json:"contractKey"`
	CompanyKey        string  `json:"companyKey"`
	CompanyID         string  `json:"companyId,omitempty"`
	CompanyName       string  `json:"companyName"`
	Label             string  `json:"label"`
	DefaultHourlyRate float64 `json:"defaultHourlyRate,omitempty"`
}

// CompanyGroupDTO represents the contracts of one company, in display order.
type CompanyGroupDTO struct {
	CompanyKey  string             `json:"companyKey"`
	CompanyID   string             `json:"companyId,omitempty"`
	CompanyName string             `json:"companyName"`
	Entries     []ContractEntryDTO `json:"entries"`
}

// =============================================================================
// CALCULATION
// =============================================================================

// ContractInputDTO carries the editable per-contract fields verbatim.
type ContractInputDTO struct {
	Hours      string `json:"hours"`
	BaseSalary string `json:"baseSalary"`
	HourlyRate string `json:"hourlyRate,omitempty"`
}

// ManualFieldsDTO carries the worker-level manual fields verbatim.
type ManualFieldsDTO struct {
	HoursWorked   string `json:"hoursWorked"`
	BaseSalary    string `json:"baseSalary"`
	OvertimeHours string `json:"overtimeHours"`
	Bonuses       string `json:"bonuses"`
	Deductions    string `json:"deductions"`
}

// CalculateRequest is the request to compute a worker's allocation.
type CalculateRequest struct {
	ContractInputs map[string]ContractInputDTO `json:"contractInputs"`
	ManualFields   ManualFieldsDTO             `json:"manualFields"`
}

// OtherPaymentDetailDTO is one ledger item attributed to a company bucket.
type OtherPaymentDetailDTO struct {
	ID            string  `json:"id"`
	Label         string  `json:"label"`
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
}

// CompanyAllocationDTO is one row of the per-company breakdown.
type CompanyAllocationDTO struct {
	CompanyKey    string                  `json:"companyKey"`
	CompanyID     string                  `json:"companyId,omitempty"`
	Name          string                  `json:"name"`
	Hours         float64                 `json:"hours"`
	Amount        float64                 `json:"amount"`
	OtherPayments []OtherPaymentDetailDTO `json:"otherPayments,omitempty"`
}

// CalculationResultDTO is the response of the calculate endpoint.
type CalculationResultDTO struct {
	TotalAmount       float64                `json:"totalAmount"`
	TotalHours        float64                `json:"totalHours"`
	RegularHours      float64                `json:"regularHours"`
	OvertimeHours     float64                `json:"overtimeHours"`
	CompanyBreakdown  []CompanyAllocationDTO `json:"companyBreakdown"`
	UsesCalendarHours bool                   `json:"usesCalendarHours"`
}

// =============================================================================
// OTHER PAYMENTS
// =============================================================================

// PaymentItemDTO represents a stored ledger item.
type PaymentItemDTO struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	Label         string `json:"label"`
	Amount        string `json:"amount"`
	CompanyKey    string `json:"companyKey,omitempty"`
	PaymentMethod string `json:"paymentMethod"`
}

// SavePaymentRequest creates or updates a ledger item.
type SavePaymentRequest struct {
	Category      string `json:"category"`
	Label         string `json:"label"`
	Amount        string `json:"amount"`
	CompanyKey    string `json:"companyKey"`
	PaymentMethod string `json:"paymentMethod"`
}

// =============================================================================
// CALENDAR HOURS
// =============================================================================

// CalendarHoursDTO maps company key to worked hours for a period.
type CalendarHoursDTO map[string]float64

// =============================================================================
// AUTO-FILL
// =============================================================================

// AutoFillStateDTO is the wire form of payroll.AutoFillState. The endpoint
// is stateless: clients carry the state from one toggle call to the next.
type AutoFillStateDTO struct {
	Overrides     []string            `json:"overrides"`
	AutoFilled    map[string][]string `json:"autoFilledKeys"`
	EnabledGroups []string            `json:"enabledGroups"`
}

// ToggleAutoFillRequest toggles auto-fill for one group or for all of them.
type ToggleAutoFillRequest struct {
	// CompanyKey selects the group to toggle; empty means every group.
	CompanyKey     string                      `json:"companyKey"`
	Enabled        bool                        `json:"enabled"`
	CalendarHours  CalendarHoursDTO            `json:"calendarHours"`
	ContractInputs map[string]ContractInputDTO `json:"contractInputs"`
	State          AutoFillStateDTO            `json:"state"`
}

// ToggleAutoFillResponse returns the rewritten inputs and the new state.
type ToggleAutoFillResponse struct {
	ContractInputs map[string]ContractInputDTO `json:"contractInputs"`
	State          AutoFillStateDTO            `json:"state"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCompanyGroupDTOs(groups []payroll.CompanyGroup) []CompanyGroupDTO {
	dtos := make([]CompanyGroupDTO, 0, len(groups))
	for _, g := range groups {
		dto := CompanyGroupDTO{
			CompanyKey:  string(g.CompanyKey),
			CompanyID:   g.CompanyID,
			CompanyName: g.CompanyName,
		}
		for _, e := range g.Entries {
			dto.Entries = append(dto.Entries, ContractEntryDTO{
				ContractKey:       string(e.ContractKey),
				CompanyKey:        string(e.CompanyKey),
				CompanyID:         e.CompanyID,
				CompanyName:       e.CompanyName,
				Label:             e.Label,
				DefaultHourlyRate: e.DefaultHourlyRate.InexactFloat64(),
			})
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func toContractInputs(in map[string]ContractInputDTO) payroll.ContractInputs {
	inputs := make(payroll.ContractInputs, len(in))
	for key, dto := range in {
		inputs[payroll.ContractKey(key)] = payroll.ContractInput{
			Hours:      dto.Hours,
			BaseSalary: dto.BaseSalary,
			HourlyRate: dto.HourlyRate,
		}
	}
	return inputs
}

func fromContractInputs(in payroll.ContractInputs) map[string]ContractInputDTO {
	out := make(map[string]ContractInputDTO, len(in))
	for key, input := range in {
		out[string(key)] = ContractInputDTO{
			Hours:      input.Hours,
			BaseSalary: input.BaseSalary,
			HourlyRate: input.HourlyRate,
		}
	}
	return out
}

func toManualFields(dto ManualFieldsDTO) payroll.ManualFields {
	return payroll.ManualFields{
		HoursWorked:   dto.HoursWorked,
		BaseSalary:    dto.BaseSalary,
		OvertimeHours: dto.OvertimeHours,
		Bonuses:       dto.Bonuses,
		Deductions:    dto.Deductions,
	}
}

func toCalendarHours(dto CalendarHoursDTO) payroll.CalendarHours {
	hours := make(payroll.CalendarHours, len(dto))
	for key, h := range dto {
		hours[payroll.CompanyKey(key)] = decimal.NewFromFloat(h)
	}
	return hours
}

func fromCalendarHours(hours payroll.CalendarHours) CalendarHoursDTO {
	dto := make(CalendarHoursDTO, len(hours))
	for key, h := range hours {
		dto[string(key)] = h.InexactFloat64()
	}
	return dto
}

func toResultDTO(result payroll.CalculationResult) CalculationResultDTO {
	dto := CalculationResultDTO{
		TotalAmount:       result.TotalAmount.InexactFloat64(),
		TotalHours:        result.TotalHours.InexactFloat64(),
		RegularHours:      result.RegularHours.InexactFloat64(),
		OvertimeHours:     result.OvertimeHours.InexactFloat64(),
		CompanyBreakdown:  make([]CompanyAllocationDTO, 0, len(result.CompanyBreakdown)),
		UsesCalendarHours: result.UsesCalendarHours,
	}
	for _, a := range result.CompanyBreakdown {
		allocation := CompanyAllocationDTO{
			CompanyKey: string(a.CompanyKey),
			CompanyID:  a.CompanyID,
			Name:       a.Name,
			Hours:      a.Hours.InexactFloat64(),
			Amount:     a.Amount.InexactFloat64(),
		}
		for _, d := range a.OtherPayments {
			allocation.OtherPayments = append(allocation.OtherPayments, OtherPaymentDetailDTO{
				ID:            d.ID,
				Label:         d.Label,
				Category:      string(d.Category),
				Amount:        d.Amount.InexactFloat64(),
				PaymentMethod: string(d.PaymentMethod),
			})
		}
		dto.CompanyBreakdown = append(dto.CompanyBreakdown, allocation)
	}
	return dto
}

func toPaymentItemDTO(cat payroll.Category, item payroll.OtherPaymentItem) PaymentItemDTO {
	return PaymentItemDTO{
		ID:            item.ID,
		Category:      string(cat),
		Label:         item.Label,
		Amount:        item.Amount,
		CompanyKey:    string(item.CompanyKey),
		PaymentMethod: string(item.PaymentMethod),
	}
}

func toAutoFillState(dto AutoFillStateDTO) *payroll.AutoFillState {
	state := payroll.NewAutoFillState()
	for _, key := range dto.Overrides {
		state.Overrides[payroll.ContractKey(key)] = true
	}
	for company, keys := range dto.AutoFilled {
		filled := make(map[payroll.ContractKey]bool, len(keys))
		for _, key := range keys {
			filled[payroll.ContractKey(key)] = true
		}
		state.Filled[payroll.CompanyKey(company)] = filled
	}
	for _, company := range dto.EnabledGroups {
		state.Enabled[payroll.CompanyKey(company)] = true
	}
	return state
}

func fromAutoFillState(state *payroll.AutoFillState) AutoFillStateDTO {
	dto := AutoFillStateDTO{
		Overrides:     make([]string, 0, len(state.Overrides)),
		AutoFilled:    make(map[string][]string, len(state.Filled)),
		EnabledGroups: make([]string, 0, len(state.Enabled)),
	}
	for key := range state.Overrides {
		dto.Overrides = append(dto.Overrides, string(key))
	}
	for company, filled := range state.Filled {
		keys := make([]string, 0, len(filled))
		for key := range filled {
			keys = append(keys, string(key))
		}
		sort.Strings(keys)
		dto.AutoFilled[string(company)] = keys
	}
	for company := range state.Enabled {
		dto.EnabledGroups = append(dto.EnabledGroups, string(company))
	}
	sort.Strings(dto.Overrides)
	sort.Strings(dto.EnabledGroups)
	return dto
}
