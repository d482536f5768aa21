package api

import (
	"net/http"

	"barrage-board/internal/logging"

	"github.com/goccy/go-json"
)

type ErrorResponse struct {
	Detail string `json:"detail" example:"Not authenticated"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to write JSON response")
	}
}

// respondError writes {"detail": detail}. A non-nil err is logged and never
// echoed to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, detail string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg(detail)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, r, status, ErrorResponse{Detail: detail})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
