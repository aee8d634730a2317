/*
engine.go - The allocation algorithm

PURPOSE:
  Combines aggregated base pay, overtime, the other-payments ledger, and
  per-company hour weights into the final per-company breakdown, with an
  exact-sum reconciliation against arithmetic drift.

TWO MODES:
  Flat (no per-contract data):
    A single base salary and flat hours field drive the total. No company
    breakdown is produced.
  Company-aware (primary):
    Base pay stays with the company that earned it. Overtime pay and the
    net of the worker-level bonus/deduction fields ("extras") are spread
    across companies proportionally to hours worked. Ledger items land on
    the company they are pinned to, or on a synthetic unassigned bucket.

RECONCILIATION:
  After allocation the breakdown is summed; any remainder beyond a cent is
  added wholesale to the LAST entry. Downstream consumers depend on the
  exact-sum guarantee, not on per-entry precision, so the remainder is
  never distributed.

FAILURE SEMANTICS:
  None. Malformed numeric input parses to zero and every input, however
  broken, yields a well-formed CalculationResult.
*/
package payroll

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Overtime is paid at time-and-a-half of the average hourly rate.
var overtimeMultiplier = decimal.NewFromFloat(1.5)

// reconcileTolerance is the drift beyond which the remainder is dumped on
// the last breakdown entry.
var reconcileTolerance = decimal.NewFromFloat(0.01)

// ComputeInput is everything ComputeAllocation needs. The function is pure:
// identical inputs always produce identical results.
type ComputeInput struct {
	Groups []CompanyGroup
	Inputs ContractInputs
	Ledger *Ledger
	Manual ManualFields

	// CompanyNames resolves display names for companies that appear only
	// in the ledger (id -> name). Optional.
	CompanyNames map[string]string
}

// ComputeAllocation is the single entry point of the engine.
func ComputeAllocation(in ComputeInput) CalculationResult {
	ledger := in.Ledger
	if ledger == nil {
		ledger = NewLedger()
	}

	summary := Aggregate(in.Groups, in.Inputs)

	overtimeHours := ParseAmount(in.Manual.OvertimeHours)
	bonuses := ParseAmount(in.Manual.Bonuses).Add(ledger.Additions())
	deductions := ParseAmount(in.Manual.Deductions).Add(ledger.Subtractions())

	if !summary.HasEntries {
		return flatAllocation(in.Manual, overtimeHours, bonuses, deductions)
	}
	return companyAllocation(in, summary, ledger, overtimeHours, bonuses, deductions)
}

// =============================================================================
// FLAT MODE
// =============================================================================

// flatAllocation handles workers with no per-contract data: a single base
// salary and flat hours figure, no company breakdown.
func flatAllocation(manual ManualFields, overtimeHours, bonuses, deductions decimal.Decimal) CalculationResult {
	regular := ParseAmount(manual.HoursWorked)
	base := ParseAmount(manual.BaseSalary)

	overtimePay := decimal.Zero
	if overtimeHours.IsPositive() && regular.IsPositive() {
		overtimePay = base.Div(regular).Mul(overtimeHours).Mul(overtimeMultiplier)
	}

	return CalculationResult{
		TotalAmount:       base.Add(overtimePay).Add(bonuses).Sub(deductions),
		TotalHours:        regular.Add(overtimeHours),
		RegularHours:      regular,
		OvertimeHours:     overtimeHours,
		UsesCalendarHours: false,
	}
}

// =============================================================================
// COMPANY-AWARE MODE
// =============================================================================

// allocationSlot is one breakdown position: a base company or a key that
// appears only in the ledger.
type allocationSlot struct {
	key   CompanyKey
	id    string
	name  string
	hours decimal.Decimal
}

func companyAllocation(in ComputeInput, summary ManualSummary, ledger *Ledger, overtimeHours, bonuses, deductions decimal.Decimal) CalculationResult {
	regular := decimal.Zero
	baseTotal := decimal.Zero

	var slots []allocationSlot
	baseKeys := make(map[CompanyKey]bool)
	for _, c := range summary.Companies {
		if !ValidCompanyName(c.Name) {
			continue
		}
		regular = regular.Add(c.Hours)
		baseTotal = baseTotal.Add(c.BaseAmount)
		slots = append(slots, allocationSlot{key: c.Key, id: c.CompanyID, name: c.Name, hours: c.Hours})
		baseKeys[c.Key] = true
	}

	averageRate := decimal.Zero
	if regular.IsPositive() && baseTotal.IsPositive() {
		averageRate = baseTotal.Div(regular)
	}

	overtimePay := decimal.Zero
	if overtimeHours.IsPositive() && averageRate.IsPositive() {
		overtimePay = overtimeHours.Mul(averageRate).Mul(overtimeMultiplier)
	}

	amountBeforeAdjustments := baseTotal.Add(overtimePay)
	totalAmount := amountBeforeAdjustments.Add(bonuses).Sub(deductions)

	adjustments := ledger.AdjustmentsByCompany()

	// Extras are the portion spread proportionally by hour weight: overtime
	// pay plus the net of the worker-level bonus/deduction fields. Ledger
	// items are excluded — they stay pinned to their own key (the
	// unassigned bucket counts as a key), never weight-spread.
	adjustmentsSum := decimal.Zero
	for _, adj := range adjustments {
		adjustmentsSum = adjustmentsSum.Add(adj.Total)
	}
	extras := totalAmount.Sub(baseTotal).Sub(adjustmentsSum)

	// Keys seen only in the ledger come after the base companies, ordered
	// by resolved name.
	var extraSlots []allocationSlot
	for key := range adjustments {
		if baseKeys[key] {
			continue
		}
		slot := allocationSlot{key: key, name: in.resolveName(key)}
		if key != UnassignedCompanyKey {
			if _, ok := in.CompanyNames[string(key)]; ok {
				slot.id = string(key)
			}
		}
		extraSlots = append(extraSlots, slot)
	}
	// Pre-sort by key so the stable name sort is deterministic even when
	// two keys resolve to the same name.
	sort.Slice(extraSlots, func(i, j int) bool { return extraSlots[i].key < extraSlots[j].key })
	sortByName(extraSlots, func(s allocationSlot) string { return s.name })
	slots = append(slots, extraSlots...)

	if len(slots) == 0 {
		return CalculationResult{
			TotalAmount:       totalAmount,
			TotalHours:        regular.Add(overtimeHours),
			RegularHours:      regular,
			OvertimeHours:     overtimeHours,
			UsesCalendarHours: false,
		}
	}

	count := decimal.NewFromInt(int64(len(slots)))
	breakdown := make([]CompanyAllocation, 0, len(slots))
	computedSum := decimal.Zero

	for _, slot := range slots {
		var weight, baseShare decimal.Decimal
		if regular.IsPositive() {
			weight = slot.hours.Div(regular)
			baseShare = weight.Mul(baseTotal)
		} else {
			// No hours anywhere: every key still receives an even share of
			// the extras, and of the base when there is pay to split.
			weight = decimal.NewFromInt(1).Div(count)
			if amountBeforeAdjustments.IsPositive() {
				baseShare = baseTotal.Div(count)
			}
		}

		amount := baseShare.Add(extras.Mul(weight))
		adj, pinned := adjustments[slot.key]
		if pinned {
			amount = amount.Add(adj.Total)
		}
		computedSum = computedSum.Add(amount)

		breakdown = append(breakdown, CompanyAllocation{
			CompanyKey:    slot.key,
			CompanyID:     slot.id,
			Name:          slot.name,
			Hours:         slot.hours,
			Amount:        amount,
			OtherPayments: adj.Items,
		})
	}

	// Exact-sum reconciliation: dump the remainder on the last entry.
	if drift := totalAmount.Sub(computedSum); drift.Abs().GreaterThan(reconcileTolerance) {
		last := len(breakdown) - 1
		breakdown[last].Amount = breakdown[last].Amount.Add(drift)
	}

	return CalculationResult{
		TotalAmount:       totalAmount,
		TotalHours:        regular.Add(overtimeHours),
		RegularHours:      regular,
		OvertimeHours:     overtimeHours,
		CompanyBreakdown:  breakdown,
		UsesCalendarHours: regular.IsPositive(),
	}
}

// resolveName maps a ledger-only company key to a display name: the
// unassigned sentinel, then the upstream id->name lookup, then the key
// itself.
func (in ComputeInput) resolveName(key CompanyKey) string {
	if key == UnassignedCompanyKey {
		return UnassignedCompanyName
	}
	if name, ok := in.CompanyNames[string(key)]; ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	for _, g := range in.Groups {
		if g.CompanyKey == key {
			return g.CompanyName
		}
	}
	return string(key)
}
