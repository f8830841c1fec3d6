package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/awardvote/internal/core/domain"
	"github.com/vncsmyrnk/awardvote/internal/core/ports"
)

type CatalogHandler struct {
	catalog ports.Catalog
}

func NewCatalogHandler(catalog ports.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
	}
}

// ListCategories godoc
// @Summary      Lists award categories
// @Description  Returns every category with its nominees, in voting order.
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  domain.Category
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := h.catalog.Category(chi.URLParam(r, "id"))
	if !ok {
		writeServiceError(w, r, domain.ErrCategoryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, category)
}
