// internal/workers/reporting/pipeline-kpi/queries/pipeline.go
package queries

import (
	"context"
	"database/sql"
	"time"
)

func CandidatesByStatus(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	query := `
		SELECT status, COUNT(*)
		FROM candidates
		GROUP BY status
		ORDER BY status`
	args := []interface{}{}

	if role, ok := params["role"].(string); ok && role != "" {
		query = `
		SELECT status, COUNT(*)
		FROM candidates
		WHERE role = $1
		GROUP BY status
		ORDER BY status`
		args = append(args, role)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"status": status,
			"count":  count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func InterviewsPerWeek(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	weeks := 8
	if w, ok := params["weeks"].(float64); ok && w > 0 {
		weeks = int(w)
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT date_trunc('week', interview_date) AS week, COUNT(*)
		FROM assessments
		WHERE interview_date >= NOW() - ($1 * INTERVAL '1 week')
		GROUP BY week
		ORDER BY week`, weeks)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	var results []map[string]interface{}
	for rows.Next() {
		var week time.Time
		var count int
		if err := rows.Scan(&week, &count); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"week":  week.Format("2006-01-02"),
			"count": count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

// ConversionRate reports how many scored candidates made it to each pipeline
// stage: qualified, interviewed, recommended for onboarding.
func ConversionRate(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	var total, qualified, interviewed, recommended int
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE qualified),
			COUNT(a.id),
			COUNT(a.id) FILTER (WHERE a.onboard_recommendation)
		FROM candidates c
		LEFT JOIN assessments a ON a.candidate_id = c.id AND a.status = 'completed'`).
		Scan(&total, &qualified, &interviewed, &recommended)
	if err != nil {
		return nil, 0, 0, err
	}

	result := map[string]interface{}{
		"total":       total,
		"qualified":   qualified,
		"interviewed": interviewed,
		"recommended": recommended,
	}
	if total > 0 {
		result["qualifiedRate"] = float64(qualified) / float64(total)
	}
	if qualified > 0 {
		result["interviewRate"] = float64(interviewed) / float64(qualified)
	}
	if interviewed > 0 {
		result["recommendRate"] = float64(recommended) / float64(interviewed)
	}

	execTime := time.Since(start).Milliseconds()
	return result, 1, execTime, nil
}
