package db

import (
	"context"
	_ "embed"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tolltariff/core/types"
	"tolltariff/internal/errors"
)

//go:embed schema_postgres.sql
var postgresSchema string

// postgresRateColumns reads NUMERIC and DATE as text for scanRate
const postgresRateColumns = `id, country_iso, rate_type, value::text, currency, unit, is_exemption,
	agreement, conditions, to_char(valid_from, 'YYYY-MM-DD'), to_char(valid_to, 'YYYY-MM-DD'),
	source_url, priority`

// PostgresStore is a shared store backed by a pgx pool
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPool creates a pgx pool with conservative sizing
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New(errors.TypeConfig, "DATABASE_URL is not set")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Config("invalid DATABASE_URL", err)
	}
	cfg.MaxConns = 5
	cfg.MinConns = 0
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.RuntimeParams["application_name"] = "tolltariff"
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
	cfg.ConnConfig.RuntimeParams["statement_timeout"] = "30000"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Storage("failed to connect to database", err)
	}
	return pool, nil
}

// OpenPostgres connects and ensures the schema exists
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, errors.Storage("failed to create schema", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Lookup(ctx context.Context, code string) (*types.Commodity, error) {
	var c types.Commodity
	var id int64
	err := s.pool.QueryRow(ctx,
		`SELECT id, code, name, description FROM commodities WHERE code = $1`, code,
	).Scan(&id, &c.Code, &c.Name, &c.Description)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("commodity", code)
	}
	if err != nil {
		return nil, errors.Storage("failed to load commodity", err).WithContext("code", code)
	}

	_, rates, err := s.rates(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Rates = rates
	return &c, nil
}

func (s *PostgresStore) rates(ctx context.Context, commodityID int64) ([]int64, []types.Rate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postgresRateColumns+` FROM rates WHERE commodity_id = $1 ORDER BY id`, commodityID)
	if err != nil {
		return nil, nil, errors.Storage("failed to load rates", err)
	}
	defer rows.Close()

	ids := []int64{}
	rates := []types.Rate{}
	for rows.Next() {
		id, r, err := scanRate(rows)
		if err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
		rates = append(rates, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, errors.Storage("failed to load rates", err)
	}
	return ids, rates, nil
}

func (s *PostgresStore) Search(ctx context.Context, query string, limit int) ([]types.CommoditySummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT code, name, description FROM commodities
		WHERE code LIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%'
		ORDER BY code
		LIMIT $2
	`, query, clampLimit(limit))
	if err != nil {
		return nil, errors.Storage("failed to search commodities", err)
	}
	defer rows.Close()

	out := []types.CommoditySummary{}
	for rows.Next() {
		var c types.CommoditySummary
		if err := rows.Scan(&c.Code, &c.Name, &c.Description); err != nil {
			return nil, errors.Storage("failed to scan commodity", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Codes(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT code FROM commodities ORDER BY code`)
	if err != nil {
		return nil, errors.Storage("failed to list codes", err)
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Storage("failed to list codes", err)
	}
	return codes, nil
}

func (s *PostgresStore) AgreementCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT agreement, COUNT(*) FROM rates
		WHERE agreement IS NOT NULL AND agreement <> ''
		GROUP BY agreement
	`)
	if err != nil {
		return nil, errors.Storage("failed to count agreements", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var code string
		var n int64
		if err := rows.Scan(&code, &n); err != nil {
			return nil, errors.Storage("failed to scan agreement count", err)
		}
		counts[code] = int(n)
	}
	return counts, rows.Err()
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var commodities, rates int64
	err := s.pool.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM commodities), (SELECT COUNT(*) FROM rates)`,
	).Scan(&commodities, &rates)
	if err != nil {
		return Stats{}, errors.Storage("failed to read stats", err)
	}
	return Stats{Commodities: int(commodities), Rates: int(rates)}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) EnsureCommodity(ctx context.Context, c types.CommoditySummary) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO commodities (code, name, description) VALUES ($1, $2, $3)
		ON CONFLICT (code) DO NOTHING
	`, c.Code, c.Name, c.Description)
	if err != nil {
		return false, errors.Storage("failed to insert commodity", err).WithContext("code", c.Code)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) HasCommodity(ctx context.Context, code string) (bool, error) {
	_, ok, err := s.commodityID(ctx, code)
	return ok, err
}

func (s *PostgresStore) commodityID(ctx context.Context, code string) (int64, bool, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM commodities WHERE code = $1`, code).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Storage("failed to look up commodity", err).WithContext("code", code)
	}
	return id, true, nil
}

func (s *PostgresStore) FindRate(ctx context.Context, code string, m RateMatch) (StoredRate, bool, error) {
	cid, ok, err := s.commodityID(ctx, code)
	if err != nil || !ok {
		return StoredRate{}, false, err
	}
	ids, rates, err := s.rates(ctx, cid)
	if err != nil {
		return StoredRate{}, false, err
	}
	found, ok := firstMatch(ids, rates, m)
	return found, ok, nil
}

func (s *PostgresStore) InsertRate(ctx context.Context, code string, r types.Rate) (int64, error) {
	cid, ok, err := s.commodityID(ctx, code)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.NotFound("commodity", code)
	}

	var id int64
	args := append([]any{cid}, rateArgs(r)...)
	err = s.pool.QueryRow(ctx, `
		INSERT INTO rates (commodity_id, country_iso, rate_type, value, currency, unit, is_exemption,
			agreement, conditions, valid_from, valid_to, source_url, priority)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10::date, $11::date, $12, $13)
		RETURNING id
	`, args...).Scan(&id)
	if err != nil {
		return 0, errors.Storage("failed to insert rate", err).WithContext("code", code)
	}
	return id, nil
}

func (s *PostgresStore) UpdateRate(ctx context.Context, id int64, r types.Rate) error {
	args := append(rateArgs(r), id)
	tag, err := s.pool.Exec(ctx, `
		UPDATE rates SET country_iso = $1, rate_type = $2, value = $3::numeric, currency = $4, unit = $5,
			is_exemption = $6, agreement = $7, conditions = $8, valid_from = $9::date, valid_to = $10::date,
			source_url = $11, priority = $12
		WHERE id = $13
	`, args...)
	if err != nil {
		return errors.Storage("failed to update rate", err).WithContext("rate_id", id)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("rate", formatID(id))
	}
	return nil
}
