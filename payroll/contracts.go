/*
contracts.go - Contract normalization

PURPOSE:
  Turns a worker's raw per-company contract records into a stable, ordered
  set of CompanyGroups. Each surviving entry receives a durable ContractKey,
  a display label, and a default hourly rate when one is known.

RULES:
  - Companies are deduplicated by resolved display name
  - Only records flagged hasContract are kept; a company with zero such
    records yields no group at all
  - A company is included only if its name passes the validity filter
    (non-blank and not a known placeholder)
  - Groups are ordered alphabetically by company name, Spanish collation

SEE ALSO:
  - types.go:     ContractEntry, CompanyGroup, ResolveCompanyIdentity
  - aggregate.go: Consumes the groups produced here
*/
package payroll

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// =============================================================================
// RAW INPUT SHAPE
// =============================================================================

// ContractRecord is the raw per-company contract row as supplied by the
// upstream worker-contracts fetch.
type ContractRecord struct {
	ID          string
	CompanyID   string
	HasContract bool
	Label       string
	Position    string
	Description string
	HourlyRate  float64 // 0 when unknown
}

// =============================================================================
// COMPANY NAME VALIDITY
// =============================================================================

// Placeholder names produced upstream when a company record is incomplete.
// Companies resolving to one of these are excluded from grouping,
// aggregation, and allocation alike.
var placeholderCompanyNames = []string{
	"empresa sin nombre",
	"sin empresa",
}

// ValidCompanyName reports whether a resolved display name identifies a
// real company. Blank names and known placeholders do not.
func ValidCompanyName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for _, p := range placeholderCompanyNames {
		if strings.EqualFold(name, p) {
			return false
		}
	}
	return true
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// BuildCompanyGroups normalizes raw contract records into ordered company
// groups. companyNames maps company id to display name; a record whose id
// is missing from the lookup falls back to the id itself. When the lookup
// HAS an entry but it is blank, the company is excluded outright — the id
// is never promoted into a display name over a known-empty one.
func BuildCompanyGroups(records []ContractRecord, companyNames map[string]string) []CompanyGroup {
	type bucket struct {
		group   *CompanyGroup
		records []ContractRecord
	}

	byName := make(map[string]*bucket)
	var order []string

	for _, rec := range records {
		if !rec.HasContract {
			continue
		}
		name, known := companyNames[rec.CompanyID]
		name = strings.TrimSpace(name)
		if !known {
			name = strings.TrimSpace(rec.CompanyID)
		}
		if !ValidCompanyName(name) {
			continue
		}

		// Deduplicate companies by display name. The first id seen for a
		// name becomes the group's id.
		lower := strings.ToLower(name)
		b, ok := byName[lower]
		if !ok {
			b = &bucket{group: &CompanyGroup{
				CompanyKey:  ResolveCompanyIdentity(rec.CompanyID, name),
				CompanyID:   strings.TrimSpace(rec.CompanyID),
				CompanyName: name,
			}}
			byName[lower] = b
			order = append(order, lower)
		}
		b.records = append(b.records, rec)
	}

	groups := make([]CompanyGroup, 0, len(order))
	for _, lower := range order {
		b := byName[lower]
		for i, rec := range b.records {
			b.group.Entries = append(b.group.Entries, ContractEntry{
				ContractKey:       contractKeyFor(b.group.CompanyKey, rec.ID, i),
				CompanyKey:        b.group.CompanyKey,
				CompanyID:         b.group.CompanyID,
				CompanyName:       b.group.CompanyName,
				HasContract:       true,
				Label:             entryLabel(rec, i),
				DefaultHourlyRate: decimal.NewFromFloat(rec.HourlyRate),
			})
		}
		groups = append(groups, *b.group)
	}

	sortByName(groups, func(g CompanyGroup) string { return g.CompanyName })
	return groups
}

// contractKeyFor synthesizes a key stable across recomputation: company key
// plus the record id, falling back to the positional index when the source
// id is missing or blank.
func contractKeyFor(company CompanyKey, recordID string, index int) ContractKey {
	id := strings.TrimSpace(recordID)
	if id == "" {
		id = fmt.Sprintf("%d", index)
	}
	return ContractKey(fmt.Sprintf("%s:%s", company, id))
}

func entryLabel(rec ContractRecord, index int) string {
	for _, candidate := range []string{rec.Label, rec.Position, rec.Description} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return fmt.Sprintf("Contrato %d", index+1)
}

// =============================================================================
// ORDERING
// =============================================================================

// sortByName orders a slice alphabetically by display name using Spanish
// collation, so "Ñ" and accented names sort the way the UI expects.
// A collator is not safe for concurrent use, so each sort builds its own.
func sortByName[T any](items []T, name func(T) string) {
	c := collate.New(language.Spanish)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(name(items[i]), name(items[j])) < 0
	})
}
