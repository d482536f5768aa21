package models

import "time"

type Axis struct {
	Data []string `json:"data"`
}

type ChartSeries struct {
	Name string  `json:"name" example:"弹幕数量"`
	Data []int64 `json:"data"`
}

type Chart struct {
	XAxis  Axis          `json:"xAxis"`
	Series []ChartSeries `json:"series"`
}

type UserRanking struct {
	Name  string `json:"name" example:"fairy"`
	Value int64  `json:"value" example:"42"`
}

type RankingSeries struct {
	Name string        `json:"name" example:"发送弹幕数"`
	Data []UserRanking `json:"data"`
}

type Ranking struct {
	Series []RankingSeries `json:"series"`
}

type Dashboard struct {
	TrendData   Chart   `json:"trendData"`
	StackedData Chart   `json:"stackedData"`
	RankingData Ranking `json:"rankingData"`
}

// DayCount is one calendar-day bucket of the trend query. Day is the local
// midnight of the bucket in the report timezone.
type DayCount struct {
	Day   time.Time
	Total int64
}

type DayComposition struct {
	Day   time.Time
	Total int64
	Fan   int64
	Noble int64
}

type SenderCount struct {
	UserID   string
	Nickname string
	Count    int64
}
