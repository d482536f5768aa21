package api

import (
	"net/http"

	"barrage-board/internal/database"
	"barrage-board/internal/models"
)

// @Summary      Dashboard charts
// @Description  Seven-day trend, seven-day composition by message category and the 24-hour top senders. Days are bucketed in the configured report timezone.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Dashboard
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /dashboard [get]
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	var dashboard *models.Dashboard

	err := s.store.ExecReadTx(r.Context(), func(q *database.Queries) error {
		var err error
		dashboard, err = s.reports.Build(r.Context(), q)
		return err
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Failed to build dashboard", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dashboard)
}
