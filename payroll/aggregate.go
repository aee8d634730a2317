/*
aggregate.go - Manual input aggregation

PURPOSE:
  Pure reduction over all contract inputs and their entry metadata into
  per-company and grand totals of hours and base pay. The allocation engine
  consumes the summary produced here; this file performs no allocation.

BASE AMOUNT RULE (per entry):
  An explicit positive base salary wins outright. Otherwise the base is
  hours x hourly rate, using the entry's default rate when the rate field
  is blank. If neither produces a positive product, the entry contributes
  zero pay (it may still contribute hours).
*/
package payroll

import "github.com/shopspring/decimal"

// CompanyAggregate is one company's summed hours and base pay.
type CompanyAggregate struct {
	Key        CompanyKey
	CompanyID  string
	Name       string
	Hours      decimal.Decimal
	BaseAmount decimal.Decimal
}

// ManualSummary is the reduction of all contract inputs for one worker.
type ManualSummary struct {
	TotalHours      decimal.Decimal
	TotalBaseAmount decimal.Decimal

	// HasEntries is true when any entry carries non-zero hours or pay.
	// It selects between the engine's flat and company-aware modes.
	HasEntries bool

	// Companies is ordered alphabetically by name, Spanish collation.
	// Invalid company names are NOT filtered here; the engine does that.
	Companies []CompanyAggregate
}

// Aggregate reduces contract inputs to per-company and grand totals.
func Aggregate(groups []CompanyGroup, inputs ContractInputs) ManualSummary {
	summary := ManualSummary{
		TotalHours:      decimal.Zero,
		TotalBaseAmount: decimal.Zero,
	}

	byKey := make(map[CompanyKey]*CompanyAggregate)
	var order []CompanyKey

	for _, group := range groups {
		for _, entry := range group.Entries {
			input := inputs[entry.ContractKey]

			hours := ParseAmount(input.Hours)
			rate := ParseAmount(input.HourlyRate)
			if rate.IsZero() {
				rate = entry.DefaultHourlyRate
			}
			explicitBase := ParseAmount(input.BaseSalary)

			base := decimal.Zero
			switch {
			case explicitBase.IsPositive():
				base = explicitBase
			case hours.IsPositive() && rate.IsPositive():
				base = hours.Mul(rate)
			}

			if !hours.IsZero() || !base.IsZero() {
				summary.HasEntries = true
			}

			// Aggregate by company id when known, name otherwise, so two
			// entries of the same company always merge.
			key := ResolveCompanyIdentity(entry.CompanyID, entry.CompanyName)
			agg, ok := byKey[key]
			if !ok {
				agg = &CompanyAggregate{
					Key:       key,
					CompanyID: entry.CompanyID,
					Name:      entry.CompanyName,
				}
				byKey[key] = agg
				order = append(order, key)
			}
			agg.Hours = agg.Hours.Add(hours)
			agg.BaseAmount = agg.BaseAmount.Add(base)

			summary.TotalHours = summary.TotalHours.Add(hours)
			summary.TotalBaseAmount = summary.TotalBaseAmount.Add(base)
		}
	}

	summary.Companies = make([]CompanyAggregate, 0, len(order))
	for _, key := range order {
		summary.Companies = append(summary.Companies, *byKey[key])
	}
	sortByName(summary.Companies, func(c CompanyAggregate) string { return c.Name })

	return summary
}
