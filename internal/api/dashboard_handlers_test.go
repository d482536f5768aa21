package api

import (
	"net/http"
	"testing"
	"time"

	"barrage-board/internal/models"

	"github.com/stretchr/testify/require"
)

func sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

func TestDashboardHandler_Empty(t *testing.T) {
	resetBarrages(t)
	_, token := createTestUser(t, "dash_empty", "pw", true)

	rr := doJSON(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.JSONEq(t, `{
		"trendData": {"xAxis": {"data": []}, "series": [{"name": "弹幕数量", "data": []}]},
		"stackedData": {"xAxis": {"data": []}, "series": [
			{"name": "普通弹幕", "data": []},
			{"name": "粉丝团弹幕", "data": []},
			{"name": "贵族弹幕", "data": []}
		]},
		"rankingData": {"series": [{"name": "发送弹幕数", "data": []}]}
	}`, rr.Body.String())
}

func TestDashboardHandler(t *testing.T) {
	resetBarrages(t)
	_, token := createTestUser(t, "dash", "pw", true)

	now := time.Now()
	insertBarrage(t, "100", "Al", now.Add(-2*time.Hour), `{"txt":"a"}`)
	insertBarrage(t, "100", "Alicia", now.Add(-1*time.Hour), `{"txt":"b","brid":"`+testRoomID+`"}`)
	insertBarrage(t, "200", "Bob", now.Add(-30*time.Minute), `{"txt":"c","nc":1}`)
	insertBarrage(t, "300", "Old", now.Add(-8*24*time.Hour), `{"txt":"d"}`)
	insertBarrage(t, "300", "Old", now.Add(-3*24*time.Hour), `{"txt":"e"}`)

	rr := doJSON(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var d models.Dashboard
	decodeBody(t, rr, &d)

	trend := d.TrendData.Series[0].Data
	require.Len(t, trend, len(d.TrendData.XAxis.Data))
	require.Equal(t, int64(4), sum(trend))

	stacked := d.StackedData.Series
	require.Len(t, stacked, 3)
	require.Equal(t, d.TrendData.XAxis.Data, d.StackedData.XAxis.Data)
	for i := range d.StackedData.XAxis.Data {
		require.Equal(t, trend[i], stacked[0].Data[i]+stacked[1].Data[i]+stacked[2].Data[i])
	}
	require.Equal(t, int64(1), sum(stacked[1].Data))
	require.Equal(t, int64(1), sum(stacked[2].Data))

	ranking := d.RankingData.Series[0].Data
	require.Equal(t, []models.UserRanking{
		{Name: "Alicia", Value: 2},
		{Name: "Bob", Value: 1},
	}, ranking)
}
