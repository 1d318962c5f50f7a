package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/product-catalog/internal/category/usecase/command"
	"github.com/tair/product-catalog/internal/category/usecase/query"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/apperror"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/middleware"
	"github.com/tair/product-catalog/pkg/response"
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	createHandler *command.CreateCategoryHandler
	updateHandler *command.UpdateCategoryHandler
	deleteHandler *command.DeleteCategoryHandler
	getHandler    *query.GetCategoryHandler
	listHandler   *query.ListCategoriesHandler

	auth      *middleware.Authenticator
	cache     *middleware.ResponseCache
	publisher kafka.EventPublisher
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(
	createHandler *command.CreateCategoryHandler,
	updateHandler *command.UpdateCategoryHandler,
	deleteHandler *command.DeleteCategoryHandler,
	getHandler *query.GetCategoryHandler,
	listHandler *query.ListCategoriesHandler,
	auth *middleware.Authenticator,
	cache *middleware.ResponseCache,
	publisher kafka.EventPublisher,
) *CategoryHandler {
	return &CategoryHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
		auth:          auth,
		cache:         cache,
		publisher:     publisher,
	}
}

// RegisterRoutes registers category routes
func (h *CategoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/categories", h.cache.Cache(h.ListCategories)).Methods(http.MethodGet)
	router.HandleFunc("/categories/{id}", h.cache.Cache(h.GetCategory)).Methods(http.MethodGet)

	router.HandleFunc("/categories", h.auth.Authorize(auth.RoleAdmin, h.CreateCategory)).Methods(http.MethodPost)
	router.HandleFunc("/categories/{id}", h.auth.Authorize(auth.RoleAdmin, h.UpdateCategory)).Methods(http.MethodPut)
	router.HandleFunc("/categories/{id}", h.auth.Authorize(auth.RoleAdmin, h.DeleteCategory)).Methods(http.MethodDelete)
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	cmd := command.CreateCategoryCommand{Description: req.Description}
	if req.Name != nil {
		cmd.Name = *req.Name
	}

	category, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.publish(r, kafka.EventTypeCategoryCreated, category.ID, category)
	response.JSON(w, http.StatusCreated, category)
}

// ListCategories handles GET /categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.listHandler.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, categories)
}

// GetCategory handles GET /categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	category, err := h.getHandler.Handle(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, category)
}

// UpdateCategory handles PUT /categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	category, err := h.updateHandler.Handle(r.Context(), command.UpdateCategoryCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	h.publish(r, kafka.EventTypeCategoryUpdated, category.ID, category)
	response.JSON(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}

	h.publish(r, kafka.EventTypeCategoryDeleted, id, map[string]uint{"id": id})
	response.Message(w, http.StatusOK, "Category deleted")
}

// publish never fails the request; a lost event is logged
func (h *CategoryHandler) publish(r *http.Request, eventType string, id uint, payload interface{}) {
	if err := h.publisher.Publish(r.Context(), eventType, id, payload); err != nil {
		logger.Error(r.Context()).Err(err).Str("event_type", eventType).Uint("category_id", id).Msg("Failed to publish event")
	}
}

func categoryID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		response.Error(w, r, apperror.Validation("Invalid category ID"))
		return 0, false
	}
	return uint(id), true
}
