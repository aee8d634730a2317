package sqlite

import (
	"context"

	"github.com/bracket2code/salary-engine/payroll"
)

// Seed loads a small demo dataset: two workers, three companies, and a few
// ledger items. Intended for local development and the demo endpoint.
func (s *Store) Seed(ctx context.Context) error {
	companies := map[string]string{
		"co-bar":   "Bar Central SL",
		"co-hotel": "Hotel Miramar SA",
		"co-rest":  "Restaurante La Plaza SL",
	}
	for id, name := range companies {
		if err := s.SaveCompany(ctx, id, name); err != nil {
			return err
		}
	}

	workers := []WorkerRecord{
		{ID: "w-maria", Name: "María García"},
		{ID: "w-juan", Name: "Juan López"},
	}
	for _, w := range workers {
		if err := s.SaveWorker(ctx, w); err != nil {
			return err
		}
	}

	contracts := []ContractRow{
		{ID: "ct-1", WorkerID: "w-maria", CompanyID: "co-bar", HasContract: true, Position: "Camarera", HourlyRate: 10.5},
		{ID: "ct-2", WorkerID: "w-maria", CompanyID: "co-hotel", HasContract: true, Position: "Recepcionista", HourlyRate: 12},
		{ID: "ct-3", WorkerID: "w-juan", CompanyID: "co-rest", HasContract: true, Position: "Cocinero", HourlyRate: 11},
		{ID: "ct-4", WorkerID: "w-juan", CompanyID: "co-bar", HasContract: false, Position: "Extra"},
	}
	for _, c := range contracts {
		if err := s.SaveContract(ctx, c); err != nil {
			return err
		}
	}

	payments := []struct {
		workerID string
		category payroll.Category
		item     payroll.OtherPaymentItem
	}{
		{"w-maria", payroll.CategoryBonuses, payroll.OtherPaymentItem{
			ID: "op-1", Label: "Propinas", Amount: "45,50", CompanyKey: "co-bar", PaymentMethod: payroll.PaymentCash,
		}},
		{"w-maria", payroll.CategoryDeductions, payroll.OtherPaymentItem{
			ID: "op-2", Label: "Anticipo", Amount: "100", PaymentMethod: payroll.PaymentBank,
		}},
		{"w-juan", payroll.CategorySupplements, payroll.OtherPaymentItem{
			ID: "op-3", Label: "Plus transporte", Amount: "30", CompanyKey: "co-rest", PaymentMethod: payroll.PaymentBank,
		}},
	}
	for _, p := range payments {
		if err := s.SavePayment(ctx, p.workerID, p.category, p.item); err != nil {
			return err
		}
	}
	return nil
}
