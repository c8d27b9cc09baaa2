package store

import (
	"context"
	"database/sql"
)

type Stats struct {
	TotalJobs     int            `json:"totalJobs"`
	ByStatus      map[string]int `json:"byStatus"`
	ByCompany     map[string]int `json:"byCompany"`
	AverageScore  *float64       `json:"averageMatchScore,omitempty"`
	UnscoredCount int            `json:"unscoredCount"`
}

func GetStats(ctx context.Context, db *sql.DB) (Stats, error) {
	st := Stats{ByStatus: map[string]int{}, ByCompany: map[string]int{}}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&st.TotalJobs); err != nil {
		return st, err
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE match_score IS NULL;`).Scan(&st.UnscoredCount); err != nil {
		return st, err
	}

	var avg sql.NullFloat64
	if err := db.QueryRowContext(ctx, `SELECT AVG(match_score) FROM jobs WHERE match_score IS NOT NULL;`).Scan(&avg); err != nil {
		return st, err
	}
	if avg.Valid {
		v := avg.Float64
		st.AverageScore = &v
	}

	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status;`)
	if err != nil {
		return st, err
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return st, err
		}
		st.ByStatus[k] = n
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	crows, err := db.QueryContext(ctx, `SELECT company, COUNT(*) FROM jobs GROUP BY company ORDER BY COUNT(*) DESC;`)
	if err != nil {
		return st, err
	}
	defer crows.Close()
	for crows.Next() {
		var k string
		var n int
		if err := crows.Scan(&k, &n); err != nil {
			return st, err
		}
		st.ByCompany[k] = n
	}
	return st, crows.Err()
}
