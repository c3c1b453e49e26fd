package storage

import "fmt"

// Overview is the high-level content of the store.
type Overview struct {
	TotalRuns   int
	CornerRuns  int
	TiltRuns    int
	EarliestRun string
	LatestRun   string
	UniqueTeams int
	TotalGaps   int
}

// TeamAppearance counts how many stored runs include a team.
type TeamAppearance struct {
	Team string
	Runs int
}

// GetOverview returns store-wide counts.
func (db *DB) GetOverview() (*Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       COALESCE(SUM(dataset = 'corners'), 0),
		       COALESCE(SUM(dataset = 'tilt'), 0),
		       COALESCE(MIN(loaded_at), ''),
		       COALESCE(MAX(loaded_at), ''),
		       COALESCE(SUM(gaps), 0)
		FROM runs`).Scan(&ov.TotalRuns, &ov.CornerRuns, &ov.TiltRuns,
		&ov.EarliestRun, &ov.LatestRun, &ov.TotalGaps)
	if err != nil {
		return nil, fmt.Errorf("runs overview: %w", err)
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(DISTINCT team) FROM (
			SELECT team FROM corner_totals UNION SELECT team FROM tilt_totals
		)`).Scan(&ov.UniqueTeams)
	if err != nil {
		return nil, fmt.Errorf("team overview: %w", err)
	}
	return &ov, nil
}

// GetTeamAppearances returns teams ordered by the number of runs they appear in.
func (db *DB) GetTeamAppearances(limit int) ([]TeamAppearance, error) {
	rows, err := db.conn.Query(`
		SELECT team, COUNT(DISTINCT run_hash) AS runs FROM (
			SELECT team, run_hash FROM corner_totals
			UNION ALL
			SELECT team, run_hash FROM tilt_totals
		) GROUP BY team ORDER BY runs DESC, team LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamAppearance
	for rows.Next() {
		var a TeamAppearance
		if err := rows.Scan(&a.Team, &a.Runs); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
