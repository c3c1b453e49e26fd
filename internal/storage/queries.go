package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-ck-metrics/internal/model"
)

// RunExists returns true if a run with the given source hash is already stored.
func (db *DB) RunExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM runs WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveCornerRun stores a corner run, replacing any earlier run of the same source.
func (db *DB) SaveCornerRun(run model.RunSummary, season []model.CornerSeason, gaps []model.GapRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replaceRun(tx, run, gaps); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO corner_totals(
			run_hash, position, team, fixtures,
			ck_for, ck_against, shots_for, shots_against,
			xg_for, xg_against, mean_xg_per_shot, mean_xg_per_shot_against
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range season {
		_, err = stmt.Exec(
			run.Hash, i, string(s.Team), s.Fixtures,
			s.For.CornersTaken, s.Against.CornersTaken,
			s.For.ShotsFromCorners, s.Against.ShotsFromCorners,
			s.For.XG, s.Against.XG, s.MeanXGPerShot, s.MeanXGPerShotConceded,
		)
		if err != nil {
			return fmt.Errorf("insert corner_totals for %s: %w", s.Team, err)
		}
	}
	return tx.Commit()
}

// SaveTiltRun stores a field-tilt run, replacing any earlier run of the same source.
func (db *DB) SaveTiltRun(run model.RunSummary, season []model.TiltSeason, gaps []model.GapRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replaceRun(tx, run, gaps); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO tilt_totals(
			run_hash, position, team, fixtures,
			winning, drawing, losing,
			winning_against, drawing_against, losing_against
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range season {
		_, err = stmt.Exec(
			run.Hash, i, string(s.Team), s.Fixtures,
			s.For.Winning, s.For.Drawing, s.For.Losing,
			s.Against.Winning, s.Against.Drawing, s.Against.Losing,
		)
		if err != nil {
			return fmt.Errorf("insert tilt_totals for %s: %w", s.Team, err)
		}
	}
	return tx.Commit()
}

// replaceRun clears any previous copy of the run and writes the run row and its gaps.
func replaceRun(tx *sql.Tx, run model.RunSummary, gaps []model.GapRecord) error {
	for _, table := range []string{"corner_totals", "tilt_totals", "run_gaps"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE run_hash = ?", run.Hash); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO runs(hash, dataset, source_path, loaded_at, observations, teams, weeks, gaps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Hash, string(run.Dataset), run.SourcePath, run.LoadedAt,
		run.Observations, run.Teams, run.Weeks, len(gaps),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for i, g := range gaps {
		if _, err := tx.Exec(`INSERT INTO run_gaps(run_hash, seq, team, kind, detail) VALUES (?, ?, ?, ?, ?)`,
			run.Hash, i, string(g.Team), g.Kind, g.Detail); err != nil {
			return fmt.Errorf("insert run_gaps: %w", err)
		}
	}
	return nil
}

const runColumns = `hash, dataset, source_path, loaded_at, observations, teams, weeks, gaps`

func scanRun(sc interface{ Scan(...any) error }) (model.RunSummary, error) {
	var s model.RunSummary
	var dataset string
	err := sc.Scan(&s.Hash, &dataset, &s.SourcePath, &s.LoadedAt,
		&s.Observations, &s.Teams, &s.Weeks, &s.Gaps)
	s.Dataset = model.Dataset(dataset)
	return s, err
}

// ListRuns returns all stored runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY loaded_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		s, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRunByPrefix finds the first run whose hash starts with the given prefix.
func (db *DB) GetRunByPrefix(prefix string) (*model.RunSummary, error) {
	s, err := scanRun(db.conn.QueryRow(`SELECT `+runColumns+` FROM runs WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%"))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetCornerTotals returns a run's corner season records in stored order.
func (db *DB) GetCornerTotals(hash string) ([]model.CornerSeason, error) {
	rows, err := db.conn.Query(`
		SELECT team, fixtures, ck_for, ck_against, shots_for, shots_against,
		       xg_for, xg_against, mean_xg_per_shot, mean_xg_per_shot_against
		FROM corner_totals WHERE run_hash = ? ORDER BY position`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CornerSeason
	for rows.Next() {
		var s model.CornerSeason
		var team string
		if err := rows.Scan(&team, &s.Fixtures,
			&s.For.CornersTaken, &s.Against.CornersTaken,
			&s.For.ShotsFromCorners, &s.Against.ShotsFromCorners,
			&s.For.XG, &s.Against.XG, &s.MeanXGPerShot, &s.MeanXGPerShotConceded,
		); err != nil {
			return nil, err
		}
		s.Team = model.Team(team)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetTiltTotals returns a run's field-tilt season records in stored order.
func (db *DB) GetTiltTotals(hash string) ([]model.TiltSeason, error) {
	rows, err := db.conn.Query(`
		SELECT team, fixtures, winning, drawing, losing, winning_against, drawing_against, losing_against
		FROM tilt_totals WHERE run_hash = ? ORDER BY position`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TiltSeason
	for rows.Next() {
		var s model.TiltSeason
		var team string
		if err := rows.Scan(&team, &s.Fixtures,
			&s.For.Winning, &s.For.Drawing, &s.For.Losing,
			&s.Against.Winning, &s.Against.Drawing, &s.Against.Losing,
		); err != nil {
			return nil, err
		}
		s.Team = model.Team(team)
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetRunGaps returns the gaps recorded for a run.
func (db *DB) GetRunGaps(hash string) ([]model.GapRecord, error) {
	rows, err := db.conn.Query(`SELECT team, kind, detail FROM run_gaps WHERE run_hash = ? ORDER BY seq`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GapRecord
	for rows.Next() {
		var g model.GapRecord
		var team string
		if err := rows.Scan(&team, &g.Kind, &g.Detail); err != nil {
			return nil, err
		}
		g.Team = model.Team(team)
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and everything stored for it.
func (db *DB) DeleteRun(hash string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, table := range []string{"corner_totals", "tilt_totals", "run_gaps"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE run_hash = ?", hash); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE hash = ?", hash); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return tx.Commit()
}
