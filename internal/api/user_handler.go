package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service"
	"github.com/phrazzld/account-api/internal/service/auth"
)

// UserHandler handles account HTTP requests
type UserHandler struct {
	users      service.UserService
	translator *ErrorTranslator
	logger     *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	users service.UserService,
	translator *ErrorTranslator,
	logger *slog.Logger,
) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		users:      users,
		translator: translator,
		logger:     logger.With(slog.String("component", "user_handler")),
	}
}

// HandlerFunc is an HTTP handler that reports failures by returning them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts fn so that any returned error goes through the translator.
func (h *UserHandler) handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.translator.Respond(w, r, err)
		}
	}
}

// Register handles POST /api/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) error {
	var req RegisterRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	shared.RespondWithData(w, r, http.StatusCreated, AuthResponse{
		User:  userToResponse(res.User),
		Token: res.Token,
	})
	return nil
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		return err
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	shared.RespondWithData(w, r, http.StatusOK, AuthResponse{
		User:  userToResponse(res.User),
		Token: res.Token,
	})
	return nil
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		return err
	}

	data := make([]UserDetailResponse, 0, len(users))
	for _, u := range users {
		data = append(data, userToDetailResponse(u))
	}

	shared.RespondWithList(w, r, data, len(data))
	return nil
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) error {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}

	shared.RespondWithData(w, r, http.StatusOK, userToDetailResponse(user))
	return nil
}

// UpdateUser handles PUT /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) error {
	var req UpdateUserRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateUser(r.Context(), chi.URLParam(r, "id"), req.Changes())
	if err != nil {
		return err
	}

	shared.RespondWithData(w, r, http.StatusOK, userToResponse(user))
	return nil
}

// DeleteUser handles DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) error {
	if err := h.users.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		return err
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "User deleted successfully")
	return nil
}

// Profile handles GET /api/users/me/profile for the authenticated caller.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) error {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("user ID not found in request context")
		return auth.ErrMissingToken
	}

	user, err := h.users.Profile(r.Context(), userID)
	if err != nil {
		return err
	}

	shared.RespondWithData(w, r, http.StatusOK, ProfileResponse{User: userToResponse(user)})
	return nil
}
