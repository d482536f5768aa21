package database

import (
	"context"
	"time"

	"barrage-board/internal/models"
)

// Day buckets are computed on the wall clock of tz rather than the session
// time zone, so a deployment's TimeZone setting never moves day boundaries.

func (q *Queries) DailyCounts(ctx context.Context, since time.Time, tz string) ([]models.DayCount, error) {
	query := `
		SELECT date_trunc('day', time AT TIME ZONE $1) AS day,
		       COUNT(*)
		  FROM ` + q.barrages + `
		 WHERE time > $2
		 GROUP BY 1
		 ORDER BY MIN(time)
	`
	rows, err := q.db.Query(ctx, query, tz, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []models.DayCount{}
	for rows.Next() {
		var d models.DayCount
		if err := rows.Scan(&d.Day, &d.Total); err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

// DailyComposition splits each day's total into fan-club messages (payload
// "brid" equal to roomID) and noble messages (payload "nc" present and not
// JSON null). Payloads of any other shape simply match neither filter.
func (q *Queries) DailyComposition(ctx context.Context, since time.Time, tz, roomID string) ([]models.DayComposition, error) {
	query := `
		SELECT date_trunc('day', time AT TIME ZONE $1) AS day,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE chatmsg::jsonb ->> 'brid' = $3),
		       COUNT(*) FILTER (WHERE jsonb_typeof(chatmsg::jsonb -> 'nc') <> 'null')
		  FROM ` + q.barrages + `
		 WHERE time > $2
		 GROUP BY 1
		 ORDER BY MIN(time)
	`
	rows, err := q.db.Query(ctx, query, tz, since, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []models.DayComposition{}
	for rows.Next() {
		var d models.DayComposition
		if err := rows.Scan(&d.Day, &d.Total, &d.Fan, &d.Noble); err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return days, nil
}

// TopSenders counts messages per sender since the given instant. Each sender
// is reported under the nickname of their latest message in the window; equal
// counts are ordered by sender id.
func (q *Queries) TopSenders(ctx context.Context, since time.Time, limit int) ([]models.SenderCount, error) {
	query := `
		WITH recent AS (
			SELECT id, userid, nickname, time
			  FROM ` + q.barrages + `
			 WHERE time > $1
		),
		names AS (
			SELECT DISTINCT ON (userid)
			       userid, nickname
			  FROM recent
			 ORDER BY userid, time DESC, id DESC
		),
		counts AS (
			SELECT userid, COUNT(*) AS cnt
			  FROM recent
			 GROUP BY userid
		)
		SELECT counts.userid, names.nickname, counts.cnt
		  FROM counts
		  JOIN names ON names.userid = counts.userid
		 ORDER BY counts.cnt DESC, counts.userid
		 LIMIT $2
	`
	rows, err := q.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	senders := []models.SenderCount{}
	for rows.Next() {
		var s models.SenderCount
		if err := rows.Scan(&s.UserID, &s.Nickname, &s.Count); err != nil {
			return nil, err
		}
		senders = append(senders, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return senders, nil
}
