package api

import (
	"errors"
	"net/http"
	"time"

	"barrage-board/internal/auth"
	"barrage-board/internal/database"
	"barrage-board/internal/logging"
	"barrage-board/internal/models"
	"barrage-board/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	Username  string    `json:"username" example:"admin"`
	IsActive  bool      `json:"is_active" example:"true"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=150" example:"operator"`
	Password string `json:"password" validate:"required,min=1" example:"secret"`
	IsActive *bool  `json:"is_active,omitempty" example:"true"`
}

// UpdateUserRequest is a partial update. An absent or empty password keeps
// the stored hash.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=150"`
	Password *string `json:"password,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (s *Server) buildUpdate(req UpdateUserRequest) (database.UpdateUserParams, error) {
	params := database.UpdateUserParams{
		Username: req.Username,
		IsActive: req.IsActive,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return params, err
		}
		params.HashedPassword = &hash
	}
	return params, nil
}

func userIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func respondUserError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, database.ErrUsernameTaken):
		respondError(w, r, http.StatusConflict, "Username already exists", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, "Internal server error", err)
	}
}

// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users [get]
func (s *Server) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		respondUserError(w, r, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user  body      CreateUserRequest  true  "New user"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users [post]
func (s *Server) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := validation.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Failed to hash password", err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user, err := s.store.CreateUser(r.Context(), database.CreateUserParams{
		Username:       req.Username,
		HashedPassword: hash,
		IsActive:       active,
	})
	if err != nil {
		respondUserError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", user.ID.String()).Msg("user created")
	writeJSON(w, r, http.StatusCreated, newUserResponse(user))
}

// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (s *Server) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid user id", nil)
		return
	}

	user, err := s.store.GetUserByID(r.Context(), id)
	if err != nil {
		respondUserError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newUserResponse(user))
}

// @Summary      Update a user
// @Description  Partial update. An empty password leaves the stored hash untouched. Renaming a user invalidates the tokens issued under the old username.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        user  body      UpdateUserRequest  true  "Fields to change"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users/{id} [put]
func (s *Server) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid user id", nil)
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	s.updateUser(w, r, id, req)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request, id uuid.UUID, req UpdateUserRequest) {
	if err := validation.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	params, err := s.buildUpdate(req)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Failed to hash password", err)
		return
	}

	user, err := s.store.UpdateUser(r.Context(), id, params)
	if err != nil {
		respondUserError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newUserResponse(user))
}

// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (s *Server) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r)
	if !ok {
		respondError(w, r, http.StatusBadRequest, "Invalid user id", nil)
		return
	}

	if err := s.store.DeleteUser(r.Context(), id); err != nil {
		respondUserError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", id.String()).Msg("user deleted")
	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, r, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	writeJSON(w, r, http.StatusOK, newUserResponse(user))
}

// @Summary      Update current user
// @Description  Changes the caller's username or password. is_active cannot be changed here. Tokens are bound to the username, so after a rename the current token stops working and the user must log in again under the new name.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user  body      UpdateUserRequest  true  "Fields to change"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users/me [put]
func (s *Server) UpdateCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, r, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	req.IsActive = nil

	s.updateUser(w, r, user.ID, req)
}
