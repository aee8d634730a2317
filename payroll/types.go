/*
Package payroll provides the core payroll allocation engine.

PURPOSE:
  This package contains the pure computation that turns per-contract manual
  inputs, calendar-derived worked hours, and a categorized ledger of other
  payments into a final per-company monetary breakdown that sums exactly to
  the worker's total payable amount.

  A worker may hold contracts with several companies at once, be paid at a
  different hourly rate per company, accrue overtime, and carry ad-hoc
  credits and debits (bonuses, supplements, debts, deductions, discounts)
  that may or may not be pinned to one company. The engine reconciles all of
  it into one CalculationResult.

KEY CONCEPTS IN THIS FILE (types.go):
  - ContractEntry: One worker-to-company assignment, immutable per session
  - ContractInput: The free-text hours/salary/rate fields the user edits
  - CompanyGroup: All of a worker's contract entries for one company
  - CalculationResult: The final breakdown, one allocation per company
  - ContractKey/CompanyKey: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Purity: ComputeAllocation is a pure function of its inputs
  2. Precision: Monetary math uses decimal.Decimal
  3. Tolerance: Malformed numeric input coerces to zero, never errors
  4. Exactness: The breakdown always sums to TotalAmount to the cent

USAGE:
  groups := payroll.BuildCompanyGroups(records, companyNames)
  result := payroll.ComputeAllocation(payroll.ComputeInput{
      Groups: groups,
      Inputs: inputs,
      Ledger: ledger,
      Manual: manual,
  })

SEE ALSO:
  - contracts.go: Contract normalization and company identity
  - ledger.go:    Other-payments ledger
  - autofill.go:  Calendar-hours auto-fill reconciler
  - engine.go:    The allocation algorithm
*/
package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// ContractKey uniquely identifies one contract entry for a worker.
// Stable across recomputation within a session.
type ContractKey string

// CompanyKey is the identity used to group contract entries and ledger
// items by company. Id-based when the company id is known, name-based
// otherwise. See ResolveCompanyIdentity.
type CompanyKey string

// UnassignedCompanyKey groups ledger items that are not pinned to any
// company. It can appear in a breakdown but never in a CompanyGroup.
const UnassignedCompanyKey CompanyKey = "__unassigned__"

// UnassignedCompanyName is the display name for the unassigned bucket.
const UnassignedCompanyName = "Sin asignar"

// ResolveCompanyIdentity derives the grouping key for a company.
//
// Precedence:
//  1. Trimmed company id, when non-empty
//  2. Trimmed company name, when non-empty
//  3. UnassignedCompanyKey
//
// The same precedence is applied everywhere a key is derived, so a ledger
// item and a contract entry referring to the same company always land in
// the same bucket.
func ResolveCompanyIdentity(id, name string) CompanyKey {
	if s := strings.TrimSpace(id); s != "" {
		return CompanyKey(s)
	}
	if s := strings.TrimSpace(name); s != "" {
		return CompanyKey(s)
	}
	return UnassignedCompanyKey
}

// =============================================================================
// CONTRACT ENTRIES
// =============================================================================

// ContractEntry is one assignment record linking a worker to a company.
// Entries are derived once per worker load and are read-only thereafter.
type ContractEntry struct {
	ContractKey ContractKey
	CompanyKey  CompanyKey
	CompanyID   string // empty when the company has no id
	CompanyName string
	HasContract bool
	Label       string

	// DefaultHourlyRate is used when the user leaves the rate field blank.
	// Zero means no default is known.
	DefaultHourlyRate decimal.Decimal
}

// ContractInput holds the free-text numeric fields for one contract entry.
// Values may use a comma decimal separator; empty string means "unset".
type ContractInput struct {
	Hours      string
	BaseSalary string
	HourlyRate string
}

// ContractInputs maps each contract entry to its editable fields.
type ContractInputs map[ContractKey]ContractInput

// Clone returns an independent copy. Auto-fill operations return updated
// copies rather than mutating the caller's map.
func (c ContractInputs) Clone() ContractInputs {
	out := make(ContractInputs, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// CompanyGroup holds all contract entries a worker has with one company.
type CompanyGroup struct {
	CompanyKey  CompanyKey
	CompanyID   string
	CompanyName string
	Entries     []ContractEntry
}

// =============================================================================
// MANUAL FIELDS
// =============================================================================

// ManualFields are the worker-level free-text fields entered alongside the
// per-contract inputs. All values are tolerant numeric strings.
type ManualFields struct {
	HoursWorked   string // flat hours, used only when no contract data exists
	BaseSalary    string // flat base salary, used only when no contract data exists
	OvertimeHours string
	Bonuses       string
	Deductions    string
}

// =============================================================================
// CALENDAR HOURS
// =============================================================================

// CalendarHours carries per-company worked-hour totals for the active
// period, as supplied by the external calendar fetch. Absent companies
// simply have no key.
type CalendarHours map[CompanyKey]decimal.Decimal

// For returns the calendar hours for a company, zero when absent.
func (c CalendarHours) For(key CompanyKey) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	return c[key]
}

// =============================================================================
// CALCULATION RESULT
// =============================================================================

// CompanyAllocation is one company's share of the final breakdown.
type CompanyAllocation struct {
	CompanyKey CompanyKey
	CompanyID  string
	Name       string
	Hours      decimal.Decimal
	Amount     decimal.Decimal

	// OtherPayments lists the ledger items that contributed to this
	// company's amount, for audit and display. Nil when none did.
	OtherPayments []OtherPaymentDetail
}

// OtherPaymentDetail is the audit record of one ledger item's contribution.
// Amount is signed: positive for credit categories, negative for debit.
type OtherPaymentDetail struct {
	ID            string
	Label         string
	Category      Category
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
}

// CalculationResult is the engine's output.
//
// INVARIANT: when CompanyBreakdown is non-empty, the sum of its amounts
// equals TotalAmount to the cent. The engine enforces this by dumping any
// floating-point remainder on the last breakdown entry.
type CalculationResult struct {
	TotalAmount       decimal.Decimal
	TotalHours        decimal.Decimal
	RegularHours      decimal.Decimal
	OvertimeHours     decimal.Decimal
	CompanyBreakdown  []CompanyAllocation
	UsesCalendarHours bool
}
