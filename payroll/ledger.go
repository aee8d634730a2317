/*
ledger.go - Other-payments ledger

PURPOSE:
  Holds the categorized ad-hoc amounts (supplements, bonuses, discounts,
  debts, deductions) a worker carries in a period, each optionally pinned
  to one company.

CREDIT vs DEBIT:
  Whether a category adds to or subtracts from the total is a static
  property of the category, held in one table here. Allocation code never
  compares category strings.

WRITE vs READ:
  Writes perform no value validation: the amount field is free text and the
  user may leave it half-typed. Parsing happens at read time through
  ParseAmount, which coerces anything malformed to zero.

SEE ALSO:
  - engine.go: Folds Additions/Subtractions and the per-company
    adjustments map into the breakdown
*/
package payroll

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORIES
// =============================================================================

// Category is one of the five closed other-payment categories.
type Category string

const (
	CategorySupplements Category = "supplements"
	CategoryBonuses     Category = "bonuses"
	CategoryDiscounts   Category = "discounts"
	CategoryDebts       Category = "debts"
	CategoryDeductions  Category = "deductions"
)

// Categories lists all categories in display order. Ledger iteration
// follows this order so recomputation is deterministic.
var Categories = []Category{
	CategorySupplements,
	CategoryBonuses,
	CategoryDiscounts,
	CategoryDebts,
	CategoryDeductions,
}

// creditCategories is the static credit/debit table: these categories add
// to the total, every other category subtracts.
var creditCategories = map[Category]bool{
	CategorySupplements: true,
	CategoryBonuses:     true,
}

// IsCredit reports whether amounts in this category add to the total.
func (c Category) IsCredit() bool { return creditCategories[c] }

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PaymentMethod is how an other-payment item is settled.
type PaymentMethod string

const (
	PaymentBank PaymentMethod = "bank"
	PaymentCash PaymentMethod = "cash"
)

// =============================================================================
// ITEMS
// =============================================================================

// OtherPaymentItem is one ad-hoc monetary item. Amount is free text;
// CompanyKey empty means the item is not pinned to a company.
type OtherPaymentItem struct {
	ID            string
	Label         string
	Amount        string
	CompanyKey    CompanyKey
	PaymentMethod PaymentMethod
}

// ItemField names an editable field of an OtherPaymentItem.
type ItemField string

const (
	FieldLabel         ItemField = "label"
	FieldAmount        ItemField = "amount"
	FieldCompanyKey    ItemField = "companyKey"
	FieldPaymentMethod ItemField = "paymentMethod"
)

// =============================================================================
// LEDGER
// =============================================================================

// Ledger holds a worker's other-payment items grouped by category.
// Not safe for concurrent use; the engine assumes a single logical writer
// per worker session.
type Ledger struct {
	items map[Category][]OtherPaymentItem
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{items: make(map[Category][]OtherPaymentItem)}
}

// AddItem appends a blank item to a category and returns it.
func (l *Ledger) AddItem(cat Category) (OtherPaymentItem, error) {
	if !cat.Valid() {
		return OtherPaymentItem{}, ErrUnknownCategory
	}
	item := OtherPaymentItem{
		ID:            uuid.NewString(),
		PaymentMethod: PaymentBank,
	}
	l.items[cat] = append(l.items[cat], item)
	return item, nil
}

// Put inserts an item with an existing id into a category, replacing any
// item already carrying that id. Used when rehydrating from storage.
func (l *Ledger) Put(cat Category, item OtherPaymentItem) error {
	if !cat.Valid() {
		return ErrUnknownCategory
	}
	for i := range l.items[cat] {
		if l.items[cat][i].ID == item.ID {
			l.items[cat][i] = item
			return nil
		}
	}
	l.items[cat] = append(l.items[cat], item)
	return nil
}

// UpdateItem sets one field of an item. The value is stored as-is; no
// numeric validation happens at write time.
func (l *Ledger) UpdateItem(cat Category, id string, field ItemField, value string) error {
	if !cat.Valid() {
		return ErrUnknownCategory
	}
	for i := range l.items[cat] {
		if l.items[cat][i].ID != id {
			continue
		}
		switch field {
		case FieldLabel:
			l.items[cat][i].Label = value
		case FieldAmount:
			l.items[cat][i].Amount = value
		case FieldCompanyKey:
			l.items[cat][i].CompanyKey = CompanyKey(value)
		case FieldPaymentMethod:
			l.items[cat][i].PaymentMethod = PaymentMethod(value)
		default:
			return ErrUnknownField
		}
		return nil
	}
	return ErrItemNotFound
}

// RemoveItem deletes an item from a category.
func (l *Ledger) RemoveItem(cat Category, id string) error {
	if !cat.Valid() {
		return ErrUnknownCategory
	}
	items := l.items[cat]
	for i := range items {
		if items[i].ID == id {
			l.items[cat] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// Items returns the items of one category in insertion order.
func (l *Ledger) Items(cat Category) []OtherPaymentItem {
	return l.items[cat]
}

// =============================================================================
// READ-TIME TOTALS
// =============================================================================

// Additions sums the parsed amounts of all credit-category items with a
// non-zero parsed amount.
func (l *Ledger) Additions() decimal.Decimal {
	return l.sum(true)
}

// Subtractions sums the parsed amounts of all debit-category items with a
// non-zero parsed amount.
func (l *Ledger) Subtractions() decimal.Decimal {
	return l.sum(false)
}

func (l *Ledger) sum(credit bool) decimal.Decimal {
	total := decimal.Zero
	for _, cat := range Categories {
		if cat.IsCredit() != credit {
			continue
		}
		for _, item := range l.items[cat] {
			if amount := ParseAmount(item.Amount); !amount.IsZero() {
				total = total.Add(amount)
			}
		}
	}
	return total
}

// CompanyAdjustment accumulates the signed ledger total pinned to one
// company key, plus the contributing items for audit display.
type CompanyAdjustment struct {
	Total decimal.Decimal
	Items []OtherPaymentDetail
}

// AdjustmentsByCompany buckets every item with a non-zero parsed amount by
// its company key (UnassignedCompanyKey for unpinned items). Amounts are
// signed: positive for credit categories, negative for debit.
func (l *Ledger) AdjustmentsByCompany() map[CompanyKey]CompanyAdjustment {
	out := make(map[CompanyKey]CompanyAdjustment)
	for _, cat := range Categories {
		for _, item := range l.items[cat] {
			amount := ParseAmount(item.Amount)
			if amount.IsZero() {
				continue
			}
			if !cat.IsCredit() {
				amount = amount.Neg()
			}
			key := item.CompanyKey
			if key == "" {
				key = UnassignedCompanyKey
			}
			adj := out[key]
			adj.Total = adj.Total.Add(amount)
			adj.Items = append(adj.Items, OtherPaymentDetail{
				ID:            item.ID,
				Label:         item.Label,
				Category:      cat,
				Amount:        amount,
				PaymentMethod: item.PaymentMethod,
			})
			out[key] = adj
		}
	}
	return out
}
