package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/Rakhulsr/afronectar/app/repositories"
	"github.com/Rakhulsr/afronectar/app/services"
	"github.com/Rakhulsr/afronectar/app/utils/calc"
	"github.com/Rakhulsr/afronectar/app/utils/format"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog  *services.Catalog
	render   *render.Render
	log      *zap.Logger
	currency string
}

func NewCatalogHandler(catalog *services.Catalog, r *render.Render, log *zap.Logger, currency string) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		render:   r,
		log:      log,
		currency: currency,
	}
}

type itemResponse struct {
	*models.Item
	DisplayPrice string `json:"display_price"`
}

type stockResponse struct {
	ItemID string `json:"item_id"`
	*repositories.StockSummary
	SellableValue string `json:"sellable_value"`
}

type moveRequest struct {
	ParentID string `json:"parent_id"`
}

func (h *CatalogHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "invalid JSON body: " + err.Error(),
		})
		return false
	}
	return true
}

// writeError maps catalog errors onto HTTP statuses.
func (h *CatalogHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid    *services.ValidationError
		integrity  *services.ReferentialIntegrityError
		outOfStock *services.OutOfStockError
		expired    *services.ExpiredStockError
	)

	switch {
	case errors.As(err, &invalid):
		h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  invalid.Error(),
			"fields": invalid.Fields,
		})
	case errors.As(err, &integrity):
		h.render.JSON(w, http.StatusConflict, map[string]interface{}{
			"error":     integrity.Error(),
			"dependent": integrity.Dependent,
		})
	case errors.As(err, &outOfStock), errors.As(err, &expired):
		h.render.JSON(w, http.StatusConflict, map[string]interface{}{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		h.render.JSON(w, http.StatusNotFound, map[string]interface{}{
			"error": err.Error(),
		})
	default:
		h.log.Error("Catalog request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		h.render.JSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "internal server error",
		})
	}
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input services.CategoryInput
	if !h.decode(w, r, &input) {
		return
	}

	category, err := h.catalog.Categories.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	tree, err := h.catalog.Categories.Tree(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, tree)
}

func (h *CatalogHandler) MoveCategory(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !h.decode(w, r, &req) {
		return
	}

	category, err := h.catalog.Categories.Move(r.Context(), mux.Vars(r)["id"], req.ParentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Categories.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input services.ProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := h.catalog.Products.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, product)
}

// ListProducts lists all products, or those of ?category=<id>. Products of
// subcategories are included unless descendants=false.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	includeDescendants := true
	if raw := query.Get("descendants"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
				"error": "descendants must be a boolean",
			})
			return
		}
		includeDescendants = parsed
	}

	products, err := h.catalog.Products.List(r.Context(), query.Get("category"), includeDescendants)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Products.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var input services.ItemInput
	if !h.decode(w, r, &input) {
		return
	}

	item, err := h.catalog.Items.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, itemResponse{
		Item:         item,
		DisplayPrice: format.Money(h.currency, item.Price),
	})
}

func (h *CatalogHandler) ItemStock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	item, err := h.catalog.Items.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, err := h.catalog.Stock.Stock(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.render.JSON(w, http.StatusOK, stockResponse{
		ItemID:        item.ID,
		StockSummary:  summary,
		SellableValue: format.Money(h.currency, calc.StockValue(item.Price, summary.Sellable)),
	})
}

func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Items.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) AttachProperty(w http.ResponseWriter, r *http.Request) {
	var input services.PropertyInput
	if !h.decode(w, r, &input) {
		return
	}
	input.ItemID = mux.Vars(r)["id"]

	property, err := h.catalog.Items.AttachProperty(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, property)
}

func (h *CatalogHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var input services.BatchInput
	if !h.decode(w, r, &input) {
		return
	}

	batch, err := h.catalog.Stock.CreateBatch(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, batch)
}

func (h *CatalogHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var input services.SaleInput
	if !h.decode(w, r, &input) {
		return
	}

	sale, err := h.catalog.Stock.RecordSale(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, sale)
}
