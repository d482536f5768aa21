package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func resetBarrages(t *testing.T) {
	_, err := testStore.pool.Exec(context.Background(), `TRUNCATE barrages RESTART IDENTITY`)
	require.NoError(t, err)
}

func insertBarrage(t *testing.T, userID, nickname string, at time.Time, payload string) int64 {
	if payload == "" {
		payload = "{}"
	}
	var id int64
	err := testStore.pool.QueryRow(context.Background(),
		`INSERT INTO barrages (userid, nickname, time, chatmsg) VALUES ($1, $2, $3, $4::jsonb) RETURNING id`,
		userID, nickname, at, payload,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
