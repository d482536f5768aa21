// Package dashboard turns aggregate rows over the barrage log into the chart
// series rendered by the dashboard page.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"barrage-board/internal/metrics"
	"barrage-board/internal/models"
)

const (
	TrendWindow   = 7 * 24 * time.Hour
	RankingWindow = 24 * time.Hour
	RankingSize   = 10

	dayLayout = "2006/01/02"

	seriesTrend   = "弹幕数量"
	seriesNormal  = "普通弹幕"
	seriesFan     = "粉丝团弹幕"
	seriesNoble   = "贵族弹幕"
	seriesRanking = "发送弹幕数"
)

// Querier is the slice of the store the engine reads from. *database.Queries
// satisfies it.
type Querier interface {
	DailyCounts(ctx context.Context, since time.Time, tz string) ([]models.DayCount, error)
	DailyComposition(ctx context.Context, since time.Time, tz, roomID string) ([]models.DayComposition, error)
	TopSenders(ctx context.Context, since time.Time, limit int) ([]models.SenderCount, error)
}

type Engine struct {
	Timezone string
	RoomID   string
	Now      func() time.Time
}

func NewEngine(timezone, roomID string) *Engine {
	return &Engine{
		Timezone: timezone,
		RoomID:   roomID,
		Now:      time.Now,
	}
}

// Build runs the three reports against q. An empty log yields empty series;
// any query error aborts the whole dashboard.
func (e *Engine) Build(ctx context.Context, q Querier) (*models.Dashboard, error) {
	now := e.Now()

	trend, err := e.Trend(ctx, q, now)
	if err != nil {
		return nil, err
	}

	stacked, err := e.Stacked(ctx, q, now)
	if err != nil {
		return nil, err
	}

	ranking, err := e.Ranking(ctx, q, now)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		TrendData:   trend,
		StackedData: stacked,
		RankingData: ranking,
	}, nil
}

func (e *Engine) Trend(ctx context.Context, q Querier, now time.Time) (models.Chart, error) {
	start := time.Now()
	rows, err := q.DailyCounts(ctx, now.Add(-TrendWindow), e.Timezone)
	metrics.ObserveReport("trend", start)
	if err != nil {
		return models.Chart{}, fmt.Errorf("trend report: %w", err)
	}
	return TrendChart(rows), nil
}

func (e *Engine) Stacked(ctx context.Context, q Querier, now time.Time) (models.Chart, error) {
	start := time.Now()
	rows, err := q.DailyComposition(ctx, now.Add(-TrendWindow), e.Timezone, e.RoomID)
	metrics.ObserveReport("stacked", start)
	if err != nil {
		return models.Chart{}, fmt.Errorf("stacked report: %w", err)
	}
	return StackedChart(rows), nil
}

func (e *Engine) Ranking(ctx context.Context, q Querier, now time.Time) (models.Ranking, error) {
	start := time.Now()
	rows, err := q.TopSenders(ctx, now.Add(-RankingWindow), RankingSize)
	metrics.ObserveReport("ranking", start)
	if err != nil {
		return models.Ranking{}, fmt.Errorf("ranking report: %w", err)
	}
	return RankingChart(rows), nil
}

func TrendChart(rows []models.DayCount) models.Chart {
	axis := make([]string, 0, len(rows))
	counts := make([]int64, 0, len(rows))
	for _, r := range rows {
		axis = append(axis, r.Day.Format(dayLayout))
		counts = append(counts, r.Total)
	}

	return models.Chart{
		XAxis:  models.Axis{Data: axis},
		Series: []models.ChartSeries{{Name: seriesTrend, Data: counts}},
	}
}

// StackedChart emits the normal, fan and noble series in that order. Normal is
// derived as total-fan-noble, so the three always add up to the day total.
func StackedChart(rows []models.DayComposition) models.Chart {
	axis := make([]string, 0, len(rows))
	normal := make([]int64, 0, len(rows))
	fan := make([]int64, 0, len(rows))
	noble := make([]int64, 0, len(rows))
	for _, r := range rows {
		axis = append(axis, r.Day.Format(dayLayout))
		normal = append(normal, r.Total-r.Fan-r.Noble)
		fan = append(fan, r.Fan)
		noble = append(noble, r.Noble)
	}

	return models.Chart{
		XAxis: models.Axis{Data: axis},
		Series: []models.ChartSeries{
			{Name: seriesNormal, Data: normal},
			{Name: seriesFan, Data: fan},
			{Name: seriesNoble, Data: noble},
		},
	}
}

func RankingChart(rows []models.SenderCount) models.Ranking {
	if len(rows) > RankingSize {
		rows = rows[:RankingSize]
	}

	data := make([]models.UserRanking, 0, len(rows))
	for _, r := range rows {
		data = append(data, models.UserRanking{Name: r.Nickname, Value: r.Count})
	}

	return models.Ranking{
		Series: []models.RankingSeries{{Name: seriesRanking, Data: data}},
	}
}
