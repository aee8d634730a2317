package payroll_test

import (
	"testing"

	"github.com/bracket2code/salary-engine/payroll"
)

func TestAggregate_BaseAmountRules(t *testing.T) {
	// GIVEN: Entries exercising each branch of the base-amount rule
	// WHEN: Aggregating
	// THEN: Explicit base wins; otherwise hours x rate; otherwise zero

	groups := payroll.BuildCompanyGroups([]payroll.ContractRecord{
		{ID: "c1", CompanyID: "co-a", HasContract: true},
		{ID: "c2", CompanyID: "co-a", HasContract: true, HourlyRate: 12},
		{ID: "c3", CompanyID: "co-a", HasContract: true},
	}, map[string]string{"co-a": "Alpha SL"})
	entries := groups[0].Entries

	summary := payroll.Aggregate(groups, payroll.ContractInputs{
		entries[0].ContractKey: {Hours: "10", HourlyRate: "9", BaseSalary: "500"}, // explicit base wins
		entries[1].ContractKey: {Hours: "8"},                                     // default rate: 8 * 12
		entries[2].ContractKey: {Hours: "4"},                                     // no rate at all: hours only
	})

	if !summary.HasEntries {
		t.Fatal("expected HasEntries")
	}
	if !approxEqual(summary.TotalHours, 22) {
		t.Errorf("total hours: want 22, got %v", summary.TotalHours)
	}
	if !approxEqual(summary.TotalBaseAmount, 596) {
		t.Errorf("total base: want 596, got %v", summary.TotalBaseAmount)
	}
}

func TestAggregate_ExplicitRateOverridesDefault(t *testing.T) {
	groups := payroll.BuildCompanyGroups([]payroll.ContractRecord{
		{ID: "c1", CompanyID: "co-a", HasContract: true, HourlyRate: 12},
	}, map[string]string{"co-a": "Alpha SL"})
	key := groups[0].Entries[0].ContractKey

	summary := payroll.Aggregate(groups, payroll.ContractInputs{
		key: {Hours: "10", HourlyRate: "15"},
	})

	if !approxEqual(summary.TotalBaseAmount, 150) {
		t.Errorf("want explicit rate to win: got %v", summary.TotalBaseAmount)
	}
}

func TestAggregate_MergesEntriesOfSameCompany(t *testing.T) {
	// GIVEN: Two contracts with the same company
	// WHEN: Aggregating
	// THEN: One per-company aggregate carries the summed hours and pay

	groups := payroll.BuildCompanyGroups([]payroll.ContractRecord{
		{ID: "c1", CompanyID: "co-a", HasContract: true, HourlyRate: 10},
		{ID: "c2", CompanyID: "co-a", HasContract: true, HourlyRate: 10},
	}, map[string]string{"co-a": "Alpha SL"})
	entries := groups[0].Entries

	summary := payroll.Aggregate(groups, payroll.ContractInputs{
		entries[0].ContractKey: {Hours: "10"},
		entries[1].ContractKey: {Hours: "5"},
	})

	if len(summary.Companies) != 1 {
		t.Fatalf("expected 1 company aggregate, got %d", len(summary.Companies))
	}
	if !approxEqual(summary.Companies[0].Hours, 15) {
		t.Errorf("company hours: want 15, got %v", summary.Companies[0].Hours)
	}
	if !approxEqual(summary.Companies[0].BaseAmount, 150) {
		t.Errorf("company base: want 150, got %v", summary.Companies[0].BaseAmount)
	}
}

func TestAggregate_BlankInputsMeanNoEntries(t *testing.T) {
	groups := payroll.BuildCompanyGroups([]payroll.ContractRecord{
		{ID: "c1", CompanyID: "co-a", HasContract: true, HourlyRate: 10},
	}, map[string]string{"co-a": "Alpha SL"})

	summary := payroll.Aggregate(groups, payroll.ContractInputs{})

	if summary.HasEntries {
		t.Error("blank inputs must not count as entries")
	}
	if !summary.TotalHours.IsZero() || !summary.TotalBaseAmount.IsZero() {
		t.Errorf("totals should be zero, got %v / %v", summary.TotalHours, summary.TotalBaseAmount)
	}
}
