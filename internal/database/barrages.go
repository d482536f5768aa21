package database

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"barrage-board/internal/models"
)

// MaxBarrageRows caps a single listing.
const MaxBarrageRows = 1000

type BarrageFilter struct {
	Username string
	From     *time.Time
	To       *time.Time
	Sort     models.SortMode
	Limit    int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListBarrages returns the most recent filter.Limit matching rows, presented
// in filter.Sort order. Rows are ordered by time only; rows sharing a
// timestamp come back in whatever order the planner produces. The second
// result reports whether more rows matched than were returned.
func (q *Queries) ListBarrages(ctx context.Context, filter BarrageFilter) ([]models.BarrageEvent, bool, error) {
	limit := filter.Limit
	if limit <= 0 || limit > MaxBarrageRows {
		limit = MaxBarrageRows
	}

	var (
		conds []string
		args  []interface{}
	)
	if filter.Username != "" {
		args = append(args, "%"+likeEscaper.Replace(filter.Username)+"%")
		conds = append(conds, fmt.Sprintf(`nickname ILIKE $%d`, len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf(`time >= $%d`, len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf(`time <= $%d`, len(args)))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, userid, nickname, time, chatmsg FROM `)
	b.WriteString(q.barrages)
	if len(conds) > 0 {
		b.WriteString(` WHERE `)
		b.WriteString(strings.Join(conds, ` AND `))
	}
	args = append(args, limit+1)
	fmt.Fprintf(&b, ` ORDER BY time DESC LIMIT $%d`, len(args))

	rows, err := q.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	barrages := make([]models.BarrageEvent, 0, 64)
	for rows.Next() {
		var event models.BarrageEvent
		err := rows.Scan(
			&event.ID,
			&event.UserID,
			&event.Nickname,
			&event.Time,
			&event.ChatMsg,
		)
		if err != nil {
			return nil, false, err
		}
		barrages = append(barrages, event)
	}

	if err = rows.Err(); err != nil {
		return nil, false, err
	}

	truncated := len(barrages) > limit
	if truncated {
		barrages = barrages[:limit]
	}
	if filter.Sort != models.SortDesc {
		slices.Reverse(barrages)
	}

	return barrages, truncated, nil
}
