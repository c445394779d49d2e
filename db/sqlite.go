package db

import (
	"context"
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"tolltariff/core/types"
	"tolltariff/internal/errors"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// SQLiteStore is the default file-backed store
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = filepath.Join("data", "tolltariff.db")
	}
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Storage("failed to create database directory", err).WithContext("path", path)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Storage("failed to open database", err).WithContext("path", path)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	for _, pragma := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, errors.Storage("failed to apply pragma", err).WithContext("pragma", pragma)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Storage("failed to create schema", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Lookup(ctx context.Context, code string) (*types.Commodity, error) {
	var c types.Commodity
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, description FROM commodities WHERE code = ?`, code,
	).Scan(&id, &c.Code, &c.Name, &c.Description)
	if err == sql.ErrNoRows {
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

func (s *SQLiteStore) rates(ctx context.Context, commodityID int64) ([]int64, []types.Rate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+rateColumns+` FROM rates WHERE commodity_id = ? ORDER BY id`, commodityID)
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

func (s *SQLiteStore) Search(ctx context.Context, query string, limit int) ([]types.CommoditySummary, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, description FROM commodities
		WHERE code LIKE ? OR lower(name) LIKE lower(?)
		ORDER BY code
		LIMIT ?
	`, pattern, pattern, clampLimit(limit))
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

func (s *SQLiteStore) Codes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code FROM commodities ORDER BY code`)
	if err != nil {
		return nil, errors.Storage("failed to list codes", err)
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, errors.Storage("failed to scan code", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

func (s *SQLiteStore) AgreementCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT agreement, COUNT(*) FROM rates
		WHERE agreement IS NOT NULL AND agreement != ''
		GROUP BY agreement
	`)
	if err != nil {
		return nil, errors.Storage("failed to count agreements", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, errors.Storage("failed to scan agreement count", err)
		}
		counts[code] = n
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM commodities), (SELECT COUNT(*) FROM rates)`,
	).Scan(&st.Commodities, &st.Rates)
	if err != nil {
		return Stats{}, errors.Storage("failed to read stats", err)
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) EnsureCommodity(ctx context.Context, c types.CommoditySummary) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO commodities (code, name, description) VALUES (?, ?, ?)`,
		c.Code, c.Name, c.Description)
	if err != nil {
		return false, errors.Storage("failed to insert commodity", err).WithContext("code", c.Code)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Storage("failed to insert commodity", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) HasCommodity(ctx context.Context, code string) (bool, error) {
	_, ok, err := s.commodityID(ctx, code)
	return ok, err
}

func (s *SQLiteStore) commodityID(ctx context.Context, code string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM commodities WHERE code = ?`, code).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Storage("failed to look up commodity", err).WithContext("code", code)
	}
	return id, true, nil
}

func (s *SQLiteStore) FindRate(ctx context.Context, code string, m RateMatch) (StoredRate, bool, error) {
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

func (s *SQLiteStore) InsertRate(ctx context.Context, code string, r types.Rate) (int64, error) {
	cid, ok, err := s.commodityID(ctx, code)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.NotFound("commodity", code)
	}

	args := append([]any{cid}, rateArgs(r)...)
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO rates (commodity_id, country_iso, rate_type, value, currency, unit, is_exemption,
			agreement, conditions, valid_from, valid_to, source_url, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return 0, errors.Storage("failed to insert rate", err).WithContext("code", code)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateRate(ctx context.Context, id int64, r types.Rate) error {
	args := append(rateArgs(r), id)
	res, err := s.db.ExecContext(ctx, `
		UPDATE rates SET country_iso = ?, rate_type = ?, value = ?, currency = ?, unit = ?,
			is_exemption = ?, agreement = ?, conditions = ?, valid_from = ?, valid_to = ?,
			source_url = ?, priority = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return errors.Storage("failed to update rate", err).WithContext("rate_id", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("rate", formatID(id))
	}
	return nil
}
