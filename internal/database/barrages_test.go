package database

import (
	"context"
	"testing"
	"time"

	"barrage-board/internal/models"

	"github.com/stretchr/testify/require"
)

func TestListBarrages_Sort(t *testing.T) {
	resetBarrages(t)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	insertBarrage(t, "u1", "Alice", base.Add(2*time.Minute), "")
	insertBarrage(t, "u2", "Bob", base, "")
	insertBarrage(t, "u3", "Carol", base.Add(time.Minute), "")

	for _, sort := range []models.SortMode{models.SortAsc, models.SortDesc} {
		t.Run(string(sort), func(t *testing.T) {
			events, truncated, err := testStore.ListBarrages(context.Background(), BarrageFilter{Sort: sort})
			require.NoError(t, err)
			require.False(t, truncated)
			require.Len(t, events, 3)

			for i := 1; i < len(events); i++ {
				if sort == models.SortAsc {
					require.False(t, events[i].Time.Before(events[i-1].Time))
				} else {
					require.False(t, events[i].Time.After(events[i-1].Time))
				}
			}
		})
	}
}

func TestListBarrages_Filters(t *testing.T) {
	resetBarrages(t)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	insertBarrage(t, "u1", "FairyTale", base, `{"brid":"1"}`)
	insertBarrage(t, "u2", "fairy", base.Add(time.Hour), "")
	insertBarrage(t, "u3", "Bob", base.Add(2*time.Hour), "")
	insertBarrage(t, "u4", "100%_real", base.Add(3*time.Hour), "")

	t.Run("nickname is case-insensitive substring", func(t *testing.T) {
		events, _, err := testStore.ListBarrages(context.Background(), BarrageFilter{Username: "AIRY", Sort: models.SortAsc})
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, "FairyTale", events[0].Nickname)
		require.JSONEq(t, `{"brid":"1"}`, string(events[0].ChatMsg))
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		events, _, err := testStore.ListBarrages(context.Background(), BarrageFilter{Username: "%_", Sort: models.SortAsc})
		require.NoError(t, err)
		require.Len(t, events, 1)
		require.Equal(t, "u4", events[0].UserID)
	})

	t.Run("time bounds are inclusive", func(t *testing.T) {
		from := base.Add(time.Hour)
		to := base.Add(2 * time.Hour)
		events, _, err := testStore.ListBarrages(context.Background(), BarrageFilter{From: &from, To: &to, Sort: models.SortAsc})
		require.NoError(t, err)
		require.Len(t, events, 2)
		require.Equal(t, "u2", events[0].UserID)
		require.Equal(t, "u3", events[1].UserID)
	})
}

func TestListBarrages_Cap(t *testing.T) {
	resetBarrages(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := testStore.pool.Exec(context.Background(), `
		INSERT INTO barrages (userid, nickname, time, chatmsg)
		SELECT 'u' || g, 'n' || g, $1::timestamptz + g * interval '1 second', '{}'::jsonb
		  FROM generate_series(1, $2::int) AS g`, base, MaxBarrageRows)
	require.NoError(t, err)

	events, truncated, err := testStore.ListBarrages(context.Background(), BarrageFilter{Sort: models.SortDesc})
	require.NoError(t, err)
	require.False(t, truncated, "exactly the cap is not truncated")
	require.Len(t, events, MaxBarrageRows)

	insertBarrage(t, "late", "late", base.Add(time.Hour), "")

	events, truncated, err = testStore.ListBarrages(context.Background(), BarrageFilter{Sort: models.SortDesc})
	require.NoError(t, err)
	require.True(t, truncated)
	require.Len(t, events, MaxBarrageRows)
	require.Equal(t, "late", events[0].UserID, "descending listing keeps the most recent rows")

	events, truncated, err = testStore.ListBarrages(context.Background(), BarrageFilter{Sort: models.SortAsc, Limit: 10})
	require.NoError(t, err)
	require.True(t, truncated)
	require.Len(t, events, 10)
	require.Equal(t, "u992", events[0].UserID, "ascending listing also keeps the most recent rows")
	require.Equal(t, "late", events[9].UserID)
	for i := 1; i < len(events); i++ {
		require.False(t, events[i].Time.Before(events[i-1].Time))
	}
}

func TestQuoteTable(t *testing.T) {
	require.Equal(t, `"barrages"`, quoteTable("barrages"))
	require.Equal(t, `"live"."douyu_barrage"`, quoteTable("live.douyu_barrage"))
	require.Equal(t, `"bad""name"`, quoteTable(`bad"name`))
}
