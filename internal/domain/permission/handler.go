package permission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Gayasri72/Hotline-Backend/internal/middleware"
	"github.com/Gayasri72/Hotline-Backend/internal/pkg/response"
)

// Handler serves the permission catalog
type Handler struct{}

// NewHandler creates a permission handler
func NewHandler() *Handler {
	return &Handler{}
}

// List returns the full permission catalog grouped by area
// GET /permissions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	grouped := make(map[string][]Entry)
	for _, e := range Catalog() {
		grouped[e.Group] = append(grouped[e.Group], e)
	}
	response.OK(w, map[string]interface{}{"permissions": grouped})
}

// Routes wires the catalog endpoint behind auth and permission gates
func (h *Handler) Routes(auth func(http.Handler) http.Handler, checker middleware.PermissionChecker) chi.Router {
	r := chi.NewRouter()
	r.Use(auth)
	r.With(middleware.Authorize(checker, ViewPermissions)).Get("/", h.List)
	return r
}
