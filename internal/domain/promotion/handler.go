package promotion

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Gayasri72/Hotline-Backend/internal/domain/permission"
	"github.com/Gayasri72/Hotline-Backend/internal/middleware"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/response"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/validator"
)

// Handler handles promotion HTTP requests
type Handler struct {
	service *Service
	now     func() time.Time
}

// NewHandler creates a promotion handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

// Create creates a new promotion
// POST /promotions
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

	p, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, map[string]interface{}{"promotion": ToResponse(p)})
}

// List returns a paginated promotion listing
// GET /promotions?isActive=&targetType=&page=&limit=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Page:  parsePositiveInt(r.URL.Query().Get("page"), defaultPage),
		Limit: parsePositiveInt(r.URL.Query().Get("limit"), defaultLimit),
	}

	if v := r.URL.Query().Get("isActive"); v != "" {
		isActive := v == "true"
		filter.IsActive = &isActive
	}
	if v := r.URL.Query().Get("targetType"); v != "" {
		t := TargetType(v)
		if !t.Valid() {
			response.BadRequest(w, "Invalid target type. Must be: ALL, PRODUCT, or CATEGORY")
			return
		}
		filter.TargetType = &t
	}

	promos, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	pages := (total + filter.Limit - 1) / filter.Limit
	response.WithMeta(w, map[string]interface{}{"promotions": ToResponses(promos)}, response.Meta{
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
		Pages:   pages,
		HasNext: filter.Page < pages,
		HasPrev: filter.Page > 1,
	})
}

// Active returns the promotions currently inside their validity window
// GET /promotions/active
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	promos, err := h.service.Active(r.Context(), h.now())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"promotions": ToResponses(promos)})
}

// Get returns a single promotion
// GET /promotions/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid promotion ID")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("ETag", etag(p.Version))
	response.OK(w, map[string]interface{}{"promotion": ToResponse(p)})
}

// ForProduct resolves promotions applicable to a product
// GET /promotions/for-product/{productId}?categoryId=&unitPrice=&quantity=&applicable=
func (h *Handler) ForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	categoryID := uuid.Nil
	if v := r.URL.Query().Get("categoryId"); v != "" {
		if categoryID, err = uuid.Parse(v); err != nil {
			response.BadRequest(w, "Invalid category ID")
			return
		}
	}

	pc := PurchaseContext{UnitPrice: decimal.Zero, Quantity: 1}
	if v := r.URL.Query().Get("unitPrice"); v != "" {
		if pc.UnitPrice, err = decimal.NewFromString(v); err != nil || pc.UnitPrice.IsNegative() {
			response.BadRequest(w, "Invalid unit price")
			return
		}
	}
	if v := r.URL.Query().Get("quantity"); v != "" {
		qty, err := strconv.ParseInt(v, 10, 64)
		if err != nil || qty < 1 {
			response.BadRequest(w, "Invalid quantity")
			return
		}
		pc.Quantity = qty
	}
	applicableOnly := r.URL.Query().Get("applicable") == "true"

	applied, err := h.service.ForProduct(r.Context(), h.now(), productID, categoryID, pc, applicableOnly)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"promotions": ToAppliedResponses(applied)})
}

// Update applies a whitelisted partial update
// PATCH /promotions/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid promotion ID")
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

	var expectedVersion *int
	if match := strings.Trim(r.Header.Get("If-Match"), `"`); match != "" {
		v, err := strconv.Atoi(match)
		if err != nil {
			response.BadRequest(w, "Invalid If-Match header")
			return
		}
		expectedVersion = &v
	}

	p, err := h.service.Update(r.Context(), id, &req, expectedVersion)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("ETag", etag(p.Version))
	response.OK(w, map[string]interface{}{"promotion": ToResponse(p)})
}

// Delete soft-deletes a promotion
// DELETE /promotions/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid promotion ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Promotion deactivated successfully"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Promotion not found")
	case errors.Is(err, ErrVersionConflict):
		response.Conflict(w, "Promotion was modified concurrently, refetch and retry")
	case errors.Is(err, ErrUnknownType),
		errors.Is(err, ErrInvalidTargetType),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrBuyGetRequired),
		errors.Is(err, ErrBuyGetForbidden),
		errors.Is(err, ErrProductRequired),
		errors.Is(err, ErrInvalidValue):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}

// Routes wires the promotion endpoints behind auth and permission gates
func (h *Handler) Routes(auth func(http.Handler) http.Handler, checker middleware.PermissionChecker) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)

	view := middleware.Authorize(checker, permission.ViewPromotions)
	manage := middleware.Authorize(checker, permission.ManagePromotions)

	// Active promotions (cashiers need this at the register)
	r.With(view).Get("/active", h.Active)
	r.With(view).Get("/for-product/{productId}", h.ForProduct)

	r.With(manage).Post("/", h.Create)
	r.With(view).Get("/", h.List)
	r.With(view).Get("/{id}", h.Get)
	r.With(manage).Patch("/{id}", h.Update)
	r.With(manage).Delete("/{id}", h.Delete)
	return r
}

func parsePositiveInt(s string, defaultValue int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return defaultValue
	}
	return v
}

func etag(version int) string {
	return `"` + strconv.Itoa(version) + `"`
}
