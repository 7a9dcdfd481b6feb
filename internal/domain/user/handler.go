package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/permission"
	"github.com/Gayasri72/Hotline-Backend/internal/middleware"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/response"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/validator"
)

// Handler handles user HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create creates a staff account
// POST /users
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

	u, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, map[string]interface{}{"user": ToResponse(u)})
}

// List returns a paginated user listing
// GET /users?isActive=&role=&page=&limit=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Page:  parsePositiveInt(r.URL.Query().Get("page"), defaultPage),
		Limit: parsePositiveInt(r.URL.Query().Get("limit"), defaultLimit),
	}
	if v := r.URL.Query().Get("isActive"); v != "" {
		isActive := v == "true"
		filter.IsActive = &isActive
	}
	if v := r.URL.Query().Get("role"); v != "" {
		filter.Role = &v
	}

	users, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	pages := (total + filter.Limit - 1) / filter.Limit
	response.WithMeta(w, map[string]interface{}{"users": ToResponses(users)}, response.Meta{
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
		Pages:   pages,
		HasNext: filter.Page < pages,
		HasPrev: filter.Page > 1,
	})
}

// Get returns a single user
// GET /users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"user": ToResponse(u)})
}

// Update applies an admin-side profile update
// PUT /users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
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

	u, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"user": ToResponse(u)})
}

// UpdateMe applies a self-service profile update
// PUT /users/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateMeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, err := h.service.UpdateMe(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"user": ToResponse(u)})
}

// Delete deactivates a user
// DELETE /users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "User deactivated successfully"})
}

// AssignRoles replaces a user's role set
// PUT /users/{id}/roles
func (h *Handler) AssignRoles(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req AssignRolesRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, err := h.service.AssignRoles(r.Context(), id, req.Roles)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"user": ToResponse(u)})
}

// GrantPermissions replaces a user's direct permission grants
// PUT /users/{id}/permissions
func (h *Handler) GrantPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req AssignPermissionsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, err := h.service.GrantPermissions(r.Context(), id, req.Permissions)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"user": ToResponse(u)})
}

// Permissions returns the user's effective permission set
// GET /users/{id}/permissions
func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	perms, err := h.service.EffectivePermissions(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"permissions": perms})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, ErrEmailTaken):
		response.Conflict(w, "Email already in use")
	case errors.Is(err, ErrUnknownRole), errors.Is(err, ErrUnknownPermission):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}

// Routes wires the user endpoints behind auth and permission gates
func (h *Handler) Routes(auth func(http.Handler) http.Handler, checker middleware.PermissionChecker) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)

	r.With(middleware.Authorize(checker, permission.UpdateOwnProfile)).Put("/me", h.UpdateMe)

	r.With(middleware.Authorize(checker, permission.CreateUser)).Post("/", h.Create)
	r.With(middleware.Authorize(checker, permission.ViewUsers)).Get("/", h.List)
	r.With(middleware.Authorize(checker, permission.ViewUsers)).Get("/{id}", h.Get)
	r.With(middleware.Authorize(checker, permission.UpdateUser)).Put("/{id}", h.Update)
	r.With(middleware.Authorize(checker, permission.DeleteUser)).Delete("/{id}", h.Delete)

	r.With(middleware.Authorize(checker, permission.AssignRoles)).Put("/{id}/roles", h.AssignRoles)
	r.With(middleware.Authorize(checker, permission.AssignPermissions)).Put("/{id}/permissions", h.GrantPermissions)
	r.With(middleware.Authorize(checker, permission.ViewUsers)).Get("/{id}/permissions", h.Permissions)

	return r
}

func parsePositiveInt(s string, defaultValue int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return defaultValue
	}
	return v
}
