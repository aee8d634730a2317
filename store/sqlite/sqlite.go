/*
Package sqlite provides SQLite-backed persistence for the payroll data the
allocation engine consumes.

PURPOSE:
  Holds workers, companies, contract records, and other-payment items.
  Allocation RESULTS are never persisted: the engine is pure and results
  are recomputed from inputs on every change.

KEY TABLES:
  workers:         Worker records
  companies:       Company id -> display name
  contracts:       Raw per-company contract records per worker
  other_payments:  Categorized ad-hoc credit/debit items per worker

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/salary.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bracket2code/salary-engine/payroll"
)

// Store implements persistence for workers, contracts, and payments.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		company_id TEXT NOT NULL,
		has_contract INTEGER NOT NULL DEFAULT 0,
		label TEXT,
		position TEXT,
		description TEXT,
		hourly_rate REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_contracts_worker ON contracts(worker_id);

	CREATE TABLE IF NOT EXISTS other_payments (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		category TEXT NOT NULL,
		label TEXT,
		amount TEXT NOT NULL DEFAULT '',
		company_key TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL DEFAULT 'bank'
	);
	CREATE INDEX IF NOT EXISTS idx_other_payments_worker ON other_payments(worker_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKERS AND COMPANIES
// =============================================================================

// WorkerRecord is one registered worker.
type WorkerRecord struct {
	ID   string
	Name string
}

// SaveWorker inserts or updates a worker.
func (s *Store) SaveWorker(ctx context.Context, worker WorkerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workers (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		worker.ID, worker.Name)
	return err
}

// ListWorkers returns all workers ordered by name.
func (s *Store) ListWorkers(ctx context.Context) ([]WorkerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM workers ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []WorkerRecord
	for rows.Next() {
		var w WorkerRecord
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// SaveCompany inserts or updates a company name.
func (s *Store) SaveCompany(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		id, name)
	return err
}

// CompanyNames returns the full id -> name lookup.
func (s *Store) CompanyNames(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.companyNamesLocked(ctx)
}

func (s *Store) companyNamesLocked(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM companies`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

// =============================================================================
// CONTRACTS
// =============================================================================

// ContractRow is the stored shape of one contract record.
type ContractRow struct {
	ID          string
	WorkerID    string
	CompanyID   string
	HasContract bool
	Label       string
	Position    string
	Description string
	HourlyRate  float64
}

// SaveContract inserts or updates a contract record.
func (s *Store) SaveContract(ctx context.Context, row ContractRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, worker_id, company_id, has_contract, label, position, description, hourly_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			worker_id = excluded.worker_id,
			company_id = excluded.company_id,
			has_contract = excluded.has_contract,
			label = excluded.label,
			position = excluded.position,
			description = excluded.description,
			hourly_rate = excluded.hourly_rate`,
		row.ID, row.WorkerID, row.CompanyID, boolToInt(row.HasContract),
		row.Label, row.Position, row.Description, row.HourlyRate)
	return err
}

// WorkerContracts loads a worker's raw contract records plus the company
// name lookup, which together are the input shape of
// payroll.BuildCompanyGroups.
func (s *Store) WorkerContracts(ctx context.Context, workerID string) ([]payroll.ContractRecord, map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, has_contract,
		       COALESCE(label, ''), COALESCE(position, ''), COALESCE(description, ''),
		       hourly_rate
		FROM contracts WHERE worker_id = ? ORDER BY rowid`, workerID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var records []payroll.ContractRecord
	for rows.Next() {
		var rec payroll.ContractRecord
		var hasContract int
		if err := rows.Scan(&rec.ID, &rec.CompanyID, &hasContract,
			&rec.Label, &rec.Position, &rec.Description, &rec.HourlyRate); err != nil {
			return nil, nil, err
		}
		rec.HasContract = hasContract != 0
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	names, err := s.companyNamesLocked(ctx)
	if err != nil {
		return nil, nil, err
	}
	return records, names, nil
}

// =============================================================================
// OTHER PAYMENTS
// =============================================================================

// SavePayment inserts or updates one other-payment item for a worker.
func (s *Store) SavePayment(ctx context.Context, workerID string, cat payroll.Category, item payroll.OtherPaymentItem) error {
	if !cat.Valid() {
		return payroll.ErrUnknownCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO other_payments (id, worker_id, category, label, amount, company_key, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			label = excluded.label,
			amount = excluded.amount,
			company_key = excluded.company_key,
			payment_method = excluded.payment_method`,
		item.ID, workerID, string(cat), item.Label, item.Amount,
		string(item.CompanyKey), string(item.PaymentMethod))
	return err
}

// DeletePayment removes one item. Returns payroll.ErrItemNotFound when no
// row matches.
func (s *Store) DeletePayment(ctx context.Context, workerID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM other_payments WHERE id = ? AND worker_id = ?`, itemID, workerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return payroll.ErrItemNotFound
	}
	return nil
}

// WorkerLedger rebuilds a worker's other-payments ledger from storage.
func (s *Store) WorkerLedger(ctx context.Context, workerID string) (*payroll.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, COALESCE(label, ''), amount, company_key, payment_method
		FROM other_payments WHERE worker_id = ? ORDER BY rowid`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := payroll.NewLedger()
	for rows.Next() {
		var item payroll.OtherPaymentItem
		var category, companyKey, method string
		if err := rows.Scan(&item.ID, &category, &item.Label, &item.Amount, &companyKey, &method); err != nil {
			return nil, err
		}
		item.CompanyKey = payroll.CompanyKey(companyKey)
		item.PaymentMethod = payroll.PaymentMethod(method)
		if err := ledger.Put(payroll.Category(category), item); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ledger, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
