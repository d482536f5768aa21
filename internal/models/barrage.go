package models

import (
	"encoding/json"
	"time"
)

// BarrageEvent is one chat/gift message from the live room. Rows are written
// by an external collector and only ever read here.
type BarrageEvent struct {
	ID       int64           `json:"id" db:"id" example:"1024"`
	UserID   string          `json:"userid" db:"userid" example:"36185293"`
	Nickname string          `json:"nickname" db:"nickname" example:"fairy"`
	Time     time.Time       `json:"time" db:"time"`
	ChatMsg  json.RawMessage `json:"chatmsg" db:"chatmsg" swaggertype:"object"`
}

type SortMode string

const (
	SortAsc  SortMode = "ASC"
	SortDesc SortMode = "DESC"
)
