package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"GridScout/internal/model"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// maxRecentLimit bounds RecentEvaluations.
const maxRecentLimit = 500

// SQLiteRecorder persists evaluation history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets API reads proceed while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			code              TEXT NOT NULL,
			name              TEXT,
			frequency         TEXT,
			score             INTEGER,
			is_suitable       INTEGER,
			avg_amplitude     REAL,
			volatility        REAL,
			oscillation_score REAL,
			liquidity_score   REAL,
			market_character  TEXT,
			price_range_ratio REAL,
			grid_count        INTEGER,
			reasons           TEXT,
			warnings          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_code_ts ON evaluations(code, timestamp)`,

		`CREATE TABLE IF NOT EXISTS scans (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			funds       INTEGER,
			suitable    INTEGER,
			failed      INTEGER,
			changed     INTEGER,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_ts ON scans(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvaluation(rec *EvaluationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reasons, err := json.Marshal(nonNil(rec.Reasons))
	if err != nil {
		return err
	}
	warnings, err := json.Marshal(nonNil(rec.Warnings))
	if err != nil {
		return err
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := r.db.Exec(`INSERT INTO evaluations
		(timestamp, code, name, frequency, score, is_suitable,
		 avg_amplitude, volatility, oscillation_score, liquidity_score, market_character,
		 price_range_ratio, grid_count, reasons, warnings)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), rec.Code, rec.Name, string(rec.Frequency), rec.Score, rec.IsSuitable,
		rec.AvgAmplitude, rec.Volatility, rec.OscillationScore, rec.LiquidityScore, string(rec.MarketCharacter),
		rec.PriceRangeRatio, rec.GridCount, string(reasons), string(warnings),
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

func (r *SQLiteRecorder) RecordScan(evt *ScanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scans
		(timestamp, funds, suitable, failed, changed, duration_ms)
		VALUES (?,?,?,?,?,?)`,
		time.Now().UnixMilli(), evt.Funds, evt.Suitable, evt.Failed, evt.Changed, evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecentEvaluations(code string, limit int) ([]EvaluationRecord, error) {
	if limit <= 0 || limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	rows, err := r.db.Query(`SELECT id, timestamp, code, name, frequency, score, is_suitable,
		avg_amplitude, volatility, oscillation_score, liquidity_score, market_character,
		price_range_ratio, grid_count, reasons, warnings
		FROM evaluations WHERE code = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, code, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EvaluationRecord{}
	for rows.Next() {
		var (
			rec               EvaluationRecord
			ts                int64
			freq, character   string
			reasons, warnings string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.Code, &rec.Name, &freq, &rec.Score, &rec.IsSuitable,
			&rec.AvgAmplitude, &rec.Volatility, &rec.OscillationScore, &rec.LiquidityScore, &character,
			&rec.PriceRangeRatio, &rec.GridCount, &reasons, &warnings); err != nil {
			return nil, err
		}
		rec.Timestamp = time.UnixMilli(ts)
		rec.Frequency = model.Frequency(freq)
		rec.MarketCharacter = model.MarketCharacter(character)
		if err := json.Unmarshal([]byte(reasons), &rec.Reasons); err != nil {
			r.log.Warn().Err(err).Int64("id", rec.ID).Msg("bad reasons column")
		}
		if err := json.Unmarshal([]byte(warnings), &rec.Warnings); err != nil {
			r.log.Warn().Err(err).Int64("id", rec.ID).Msg("bad warnings column")
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
