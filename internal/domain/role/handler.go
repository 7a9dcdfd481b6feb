package role

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/permission"
	"github.com/Gayasri72/Hotline-Backend/internal/middleware"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/response"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/validator"
)

// Handler handles role HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a role handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create creates a role
// POST /roles
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	role, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, map[string]interface{}{"role": ToResponse(role)})
}

// List returns all roles
// GET /roles
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]interface{}{"roles": ToResponses(roles)})
}

// Get returns a single role
// GET /roles/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid role ID")
		return
	}

	role, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"role": ToResponse(role)})
}

// Update applies a partial update
// PATCH /roles/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid role ID")
		return
	}

	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	role, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"role": ToResponse(role)})
}

// Delete removes a role
// DELETE /roles/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid role ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "Role deleted successfully"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Role not found")
	case errors.Is(err, ErrNameTaken):
		response.Conflict(w, "Role name already in use")
	case errors.Is(err, ErrUnknownPermission), errors.Is(err, ErrSystemRole):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}

// Routes wires the role endpoints behind auth and permission gates
func (h *Handler) Routes(auth func(http.Handler) http.Handler, checker middleware.PermissionChecker) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)

	view := middleware.Authorize(checker, permission.ViewRoles)
	manage := middleware.Authorize(checker, permission.ManageRoles)

	r.With(manage).Post("/", h.Create)
	r.With(view).Get("/", h.List)
	r.With(view).Get("/{id}", h.Get)
	r.With(manage).Patch("/{id}", h.Update)
	r.With(manage).Delete("/{id}", h.Delete)
	return r
}
