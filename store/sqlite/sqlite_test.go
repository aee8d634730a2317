package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracket2code/salary-engine/payroll"
	"github.com/bracket2code/salary-engine/store/sqlite"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_WorkersRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveWorker(ctx, sqlite.WorkerRecord{ID: "w1", Name: "Zoe"}))
	require.NoError(t, store.SaveWorker(ctx, sqlite.WorkerRecord{ID: "w2", Name: "Ana"}))
	require.NoError(t, store.SaveWorker(ctx, sqlite.WorkerRecord{ID: "w1", Name: "Zoé"})) // upsert

	workers, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 2)
	assert.Equal(t, "Ana", workers[0].Name)
	assert.Equal(t, "Zoé", workers[1].Name)
}

func TestStore_WorkerContracts_FeedsNormalizer(t *testing.T) {
	// Stored rows come back in the exact shape BuildCompanyGroups expects.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveWorker(ctx, sqlite.WorkerRecord{ID: "w1", Name: "Ana"}))
	require.NoError(t, store.SaveCompany(ctx, "co-a", "Alpha SL"))
	require.NoError(t, store.SaveContract(ctx, sqlite.ContractRow{
		ID: "ct-1", WorkerID: "w1", CompanyID: "co-a", HasContract: true,
		Position: "Camarera", HourlyRate: 10.5,
	}))
	require.NoError(t, store.SaveContract(ctx, sqlite.ContractRow{
		ID: "ct-2", WorkerID: "w1", CompanyID: "co-a", HasContract: false,
	}))

	records, names, err := store.WorkerContracts(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Alpha SL", names["co-a"])

	groups := payroll.BuildCompanyGroups(records, names)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, "Camarera", groups[0].Entries[0].Label)
	assert.True(t, groups[0].Entries[0].DefaultHourlyRate.Equal(dec(10.5)))
}

func TestStore_PaymentsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveWorker(ctx, sqlite.WorkerRecord{ID: "w1", Name: "Ana"}))
	item := payroll.OtherPaymentItem{
		ID: "op-1", Label: "Propinas", Amount: "45,50",
		CompanyKey: "co-a", PaymentMethod: payroll.PaymentCash,
	}
	require.NoError(t, store.SavePayment(ctx, "w1", payroll.CategoryBonuses, item))

	// Update in place.
	item.Amount = "50"
	require.NoError(t, store.SavePayment(ctx, "w1", payroll.CategoryBonuses, item))

	ledger, err := store.WorkerLedger(ctx, "w1")
	require.NoError(t, err)
	items := ledger.Items(payroll.CategoryBonuses)
	require.Len(t, items, 1)
	assert.Equal(t, "50", items[0].Amount)
	assert.Equal(t, payroll.PaymentCash, items[0].PaymentMethod)
	assert.True(t, ledger.Additions().Equal(dec(50)))

	require.NoError(t, store.DeletePayment(ctx, "w1", "op-1"))
	assert.ErrorIs(t, store.DeletePayment(ctx, "w1", "op-1"), payroll.ErrItemNotFound)
}

func TestStore_SavePayment_RejectsUnknownCategory(t *testing.T) {
	store := newTestStore(t)
	err := store.SavePayment(context.Background(), "w1", "tips", payroll.OtherPaymentItem{ID: "x"})
	assert.ErrorIs(t, err, payroll.ErrUnknownCategory)
}

func TestStore_Seed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx))
	require.NoError(t, store.Seed(ctx)) // idempotent

	workers, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 2)

	records, names, err := store.WorkerContracts(ctx, "w-maria")
	require.NoError(t, err)
	assert.Len(t, records, 2)
	groups := payroll.BuildCompanyGroups(records, names)
	assert.Len(t, groups, 2)

	ledger, err := store.WorkerLedger(ctx, "w-maria")
	require.NoError(t, err)
	assert.True(t, ledger.Additions().IsPositive())
	assert.True(t, ledger.Subtractions().IsPositive())
}
