package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store persists result rows in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the schema.
func OpenSQLite(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		`CREATE TABLE IF NOT EXISTS season_results (
			run_id TEXT NOT NULL,
			replication INTEGER NOT NULL,
			season INTEGER NOT NULL,
			team TEXT NOT NULL,
			budget REAL NOT NULL,
			payroll REAL NOT NULL,
			skill REAL NOT NULL,
			revenue REAL NOT NULL,
			wins INTEGER NOT NULL,
			losses INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			eliminated_rs INTEGER NOT NULL,
			eliminated_pp INTEGER NOT NULL,
			eliminated_round INTEGER NOT NULL,
			champion INTEGER NOT NULL,
			bankrupt INTEGER NOT NULL,
			shortfall INTEGER NOT NULL,
			valid INTEGER NOT NULL,
			PRIMARY KEY (run_id, season, team)
		);`,
		`CREATE TABLE IF NOT EXISTS salary_summaries (
			run_id TEXT NOT NULL,
			replication INTEGER NOT NULL,
			season INTEGER NOT NULL,
			count INTEGER NOT NULL,
			min REAL NOT NULL,
			mean REAL NOT NULL,
			median REAL NOT NULL,
			max REAL NOT NULL,
			PRIMARY KEY (run_id, season)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes all rows in one transaction.
func (s *Store) Save(ctx context.Context, seasons []SeasonRow, salaries []SalaryRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	seasonStmt, err := tx.PrepareContext(ctx, `INSERT INTO season_results
		(run_id, replication, season, team, budget, payroll, skill, revenue, wins, losses, rank,
		 eliminated_rs, eliminated_pp, eliminated_round, champion, bankrupt, shortfall, valid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer seasonStmt.Close()
	for _, r := range seasons {
		if _, err := seasonStmt.ExecContext(ctx,
			r.RunID, r.Replication, r.Season, r.Team, r.Budget, r.Payroll, r.Skill, r.Revenue,
			r.Wins, r.Losses, r.Rank, r.EliminatedRS, r.EliminatedPP, r.EliminatedIn,
			r.Champion, r.Bankrupt, r.Shortfall, r.Valid,
		); err != nil {
			return fmt.Errorf("insert season row %s/%d/%s: %w", r.RunID, r.Season, r.Team, err)
		}
	}

	salaryStmt, err := tx.PrepareContext(ctx, `INSERT INTO salary_summaries
		(run_id, replication, season, count, min, mean, median, max)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer salaryStmt.Close()
	for _, r := range salaries {
		if _, err := salaryStmt.ExecContext(ctx,
			r.RunID, r.Replication, r.Season, r.Count, r.Min, r.Mean, r.Median, r.Max,
		); err != nil {
			return fmt.Errorf("insert salary row %s/%d: %w", r.RunID, r.Season, err)
		}
	}
	return tx.Commit()
}

// CountSeasonRows returns how many season rows are stored for runID.
func (s *Store) CountSeasonRows(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM season_results WHERE run_id = ?", runID).Scan(&n)
	return n, err
}

// ChampionCounts returns the number of titles per team across all stored runs.
func (s *Store) ChampionCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT team, COUNT(*) FROM season_results WHERE champion = 1 GROUP BY team")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var team string
		var n int
		if err := rows.Scan(&team, &n); err != nil {
			return nil, err
		}
		out[team] = n
	}
	return out, rows.Err()
}
