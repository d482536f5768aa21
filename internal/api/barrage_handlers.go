package api

import (
	"fmt"
	"net/http"
	"time"

	"barrage-board/internal/database"
	"barrage-board/internal/logging"
	"barrage-board/internal/metrics"
	"barrage-board/internal/models"
	"barrage-board/internal/validation"
)

type BarrageQuery struct {
	Sort     string `query:"sort" validate:"required,oneof=ASC DESC"`
	Username string `query:"username" validate:"max=100"`
	DtMin    string `query:"dt_min"`
	DtMax    string `query:"dt_max"`
}

type Message struct {
	Type string `json:"type" example:"warning"`
	Text string `json:"text"`
}

type BarrageListResponse struct {
	Barrages []models.BarrageEvent `json:"barrages"`
	Messages []Message             `json:"messages,omitempty"`
}

var truncatedText = fmt.Sprintf("Only the most recent %d matching messages are shown. Narrow the time range or nickname filter to see older ones.", database.MaxBarrageRows)

// zone-less layouts are read on the report timezone's wall clock
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseInstant(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid datetime %q", value)
}

// @Summary      List barrage messages
// @Description  Returns the most recent 1000 matching messages, filtered by nickname substring and an inclusive time range, ordered by time in the requested direction. With sort=ASC the kept rows are still the newest ones, listed oldest first. A warning message is attached when older matches were cut.
// @Tags         barrages
// @Produce      json
// @Security     BearerAuth
// @Param        sort      query  string  true   "Sort direction"  Enums(ASC, DESC)
// @Param        username  query  string  false  "Nickname substring"
// @Param        dt_min    query  string  false  "Lower bound (inclusive)"
// @Param        dt_max    query  string  false  "Upper bound (inclusive)"
// @Success      200  {object}  BarrageListResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /barrages [get]
func (s *Server) ListBarragesHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := BarrageQuery{
		Sort:     params.Get("sort"),
		Username: params.Get("username"),
		DtMin:    params.Get("dt_min"),
		DtMax:    params.Get("dt_max"),
	}
	if err := validation.Struct(query); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	from, err := parseInstant(query.DtMin, s.location)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "dt_min: "+err.Error(), nil)
		return
	}
	to, err := parseInstant(query.DtMax, s.location)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "dt_max: "+err.Error(), nil)
		return
	}

	barrages, truncated, err := s.store.ListBarrages(r.Context(), database.BarrageFilter{
		Username: query.Username,
		From:     from,
		To:       to,
		Sort:     models.SortMode(query.Sort),
		Limit:    database.MaxBarrageRows,
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Failed to list barrages", err)
		return
	}

	resp := BarrageListResponse{Barrages: barrages}
	if truncated {
		metrics.BarrageListTruncated.Inc()
		logging.Ctx(r.Context()).Debug().Int("rows", len(barrages)).Msg("barrage listing truncated")
		resp.Messages = []Message{{Type: "warning", Text: truncatedText}}
	}

	writeJSON(w, r, http.StatusOK, resp)
}
