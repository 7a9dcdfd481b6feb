package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/user"
	"github.com/Gayasri72/Hotline-Backend/internal/middleware"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/response"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/validator"
)

// Handler handles authentication HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates an auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login authenticates by email and password
// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, resp)
}

// Refresh rotates a refresh token
// POST /auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, resp)
}

// Logout revokes a refresh token
// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]string{"message": "Logged out successfully"})
}

// Me returns the authenticated user
// GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	u, err := h.service.Me(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"user": user.ToResponse(u)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid email or password")
	case errors.Is(err, ErrUserInactive):
		response.Forbidden(w, "Account is deactivated")
	case errors.Is(err, ErrRefreshTokenRequired), errors.Is(err, ErrInvalidRefreshToken):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, "User not found")
	default:
		response.InternalError(w)
	}
}

// Routes wires the auth endpoints. Login, refresh and logout are
// public; me requires a valid access token.
func (h *Handler) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Get("/me", h.Me)
	})
	return r
}
