package sale

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/permission"
	"github.com/Gayasri72/Hotline-Backend/internal/domain/promotion"
	"github.com/Gayasri72/Hotline-Backend/internal/middleware"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/response"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/validator"
)

// Handler handles return HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates a returns handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create registers a plain return
// POST /returns
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ret, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, map[string]interface{}{"return": ToResponse(ret)})
}

// CreateExchange registers an exchange
// POST /returns/exchange
func (h *Handler) CreateExchange(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req ExchangeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ret, err := h.service.CreateExchange(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, map[string]interface{}{"return": ToResponse(ret)})
}

// List returns a paginated returns listing
// GET /returns?type=&status=&page=&limit=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Page:  parsePositiveInt(r.URL.Query().Get("page"), defaultPage),
		Limit: parsePositiveInt(r.URL.Query().Get("limit"), defaultLimit),
	}
	if v := r.URL.Query().Get("type"); v != "" {
		t := ReturnType(v)
		if t != TypeReturn && t != TypeExchange {
			response.BadRequest(w, "Invalid return type. Must be: RETURN or EXCHANGE")
			return
		}
		filter.Type = &t
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st := ReturnStatus(v)
		if st != StatusRequested && st != StatusCompleted {
			response.BadRequest(w, "Invalid status. Must be: REQUESTED or COMPLETED")
			return
		}
		filter.Status = &st
	}

	returns, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	pages := (total + filter.Limit - 1) / filter.Limit
	response.WithMeta(w, map[string]interface{}{"returns": ToResponses(returns)}, response.Meta{
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
		Pages:   pages,
		HasNext: filter.Page < pages,
		HasPrev: filter.Page > 1,
	})
}

// Get returns a single return
// GET /returns/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid return ID")
		return
	}

	ret, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"return": ToResponse(ret)})
}

// Complete finishes a requested return
// POST /returns/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid return ID")
		return
	}

	ret, err := h.service.Complete(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"return": ToResponse(ret)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Return not found")
	case errors.Is(err, ErrAlreadyCompleted),
		errors.Is(err, ErrNoItems),
		errors.Is(err, ErrNoReplacements):
		response.BadRequest(w, err.Error())
	case errors.Is(err, promotion.ErrUsageLimitReached):
		response.Conflict(w, "Promotion usage limit reached")
	case errors.Is(err, promotion.ErrNotFound):
		response.BadRequest(w, "Unknown promotion on replacement item")
	default:
		response.InternalError(w)
	}
}

// Routes wires the returns endpoints behind auth and permission gates
func (h *Handler) Routes(auth func(http.Handler) http.Handler, checker middleware.PermissionChecker) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)

	create := middleware.Authorize(checker, permission.CreateReturn)
	view := middleware.Authorize(checker, permission.ViewReturns)

	r.With(create).Post("/", h.Create)
	r.With(create).Post("/exchange", h.CreateExchange)
	r.With(view).Get("/", h.List)
	r.With(view).Get("/{id}", h.Get)
	r.With(create).Post("/{id}/complete", h.Complete)
	return r
}

func parsePositiveInt(s string, defaultValue int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return defaultValue
	}
	return v
}
