package treasury

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionStore persists treasury transaction history beyond the
// engine's in-memory slice. Grounded on the pgxpool.Pool connection
// pattern used throughout the retrieval pack's postgres-backed stores.
type TransactionStore interface {
	Append(ctx context.Context, tx TreasuryTransaction) error
	List(ctx context.Context, limit, offset int) ([]TreasuryTransaction, error)
}

// MemoryStore is the default in-process TransactionStore.
type MemoryStore struct {
	txs []TreasuryTransaction
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(_ context.Context, tx TreasuryTransaction) error {
	s.txs = append(s.txs, tx)
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]TreasuryTransaction, error) {
	if offset >= len(s.txs) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(s.txs) {
		end = len(s.txs)
	}
	out := make([]TreasuryTransaction, end-offset)
	copy(out, s.txs[offset:end])
	return out, nil
}

// PostgresStore is the durable alternate, backed by a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgresStore opens a pooled connection and verifies it with a
// ping, the same two-step pattern the pack's postgres stores use.
func ConnectPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("treasury: unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("treasury: ping failed: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) Append(ctx context.Context, tx TreasuryTransaction) error {
	const sql = `
		INSERT INTO treasury_transactions
			(id, kind, source, wallet_id, total_micros, coin_micros, company_api_micros,
			 owner_salary_micros, community_micros, timestamp, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.pool.Exec(ctx, sql,
		tx.ID, int(tx.Kind), int(tx.Source), tx.WalletID,
		int64(tx.Total), int64(tx.Splits.CoinEconomy),
		int64(tx.Splits.Infrastructure.CompanyAPI), int64(tx.Splits.Infrastructure.OwnerSalary),
		int64(tx.Splits.Infrastructure.Community), tx.Timestamp, tx.Hash[:])
	if err != nil {
		return fmt.Errorf("treasury: failed to insert transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]TreasuryTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const sql = `
		SELECT id, kind, source, wallet_id, total_micros, coin_micros, company_api_micros,
		       owner_salary_micros, community_micros, timestamp, hash
		FROM treasury_transactions
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.pool.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("treasury: failed to query transactions: %w", err)
	}
	defer rows.Close()

	var out []TreasuryTransaction
	for rows.Next() {
		var tx TreasuryTransaction
		var kind, source int
		var total, coin, companyAPI, ownerSalary, community int64
		var hashBytes []byte
		if err := rows.Scan(&tx.ID, &kind, &source, &tx.WalletID, &total, &coin,
			&companyAPI, &ownerSalary, &community, &tx.Timestamp, &hashBytes); err != nil {
			return nil, fmt.Errorf("treasury: failed to scan transaction: %w", err)
		}
		tx.Kind = Kind(kind)
		tx.Source = Source(source)
		tx.Total = Money(total)
		tx.Splits = Splits{
			CoinEconomy: Money(coin),
			Infrastructure: InfrastructureSplit{
				CompanyAPI:  Money(companyAPI),
				OwnerSalary: Money(ownerSalary),
				Community:   Money(community),
			},
		}
		copy(tx.Hash[:], hashBytes)
		out = append(out, tx)
	}
	return out, rows.Err()
}
