package api

import (
	"errors"
	"net/http"

	"barrage-board/internal/auth"
	"barrage-board/internal/database"
	"barrage-board/internal/logging"
	"barrage-board/internal/metrics"
	"barrage-board/internal/validation"
)

type TokenRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJhZG1pbiJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

const badCredentials = "LOGIN_BAD_CREDENTIALS"

// @Summary      Issue an access token
// @Description  Exchanges form-encoded credentials for a bearer token.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Router       /auth/token [post]
func (s *Server) TokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid form body", nil)
		return
	}

	req := TokenRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if err := validation.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, database.ErrUserNotFound) {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		respondError(w, r, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.HashedPassword) {
		metrics.LoginAttempts.WithLabelValues("bad_credentials").Inc()
		respondError(w, r, http.StatusUnauthorized, badCredentials, nil)
		return
	}
	if !user.IsActive {
		metrics.LoginAttempts.WithLabelValues("inactive").Inc()
		respondError(w, r, http.StatusUnauthorized, badCredentials, nil)
		return
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		respondError(w, r, http.StatusInternalServerError, "Could not issue token", err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	logging.Ctx(r.Context()).Info().Str("username", user.Username).Msg("issued access token")

	writeJSON(w, r, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
