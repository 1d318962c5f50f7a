package http

// CreateCategory godoc
// @Summary Create a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string} true "Category data"
// @Success 201 {object} domain.Category
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /categories [post]
func (h *CategoryHandler) CreateCategoryDoc() {}

// ListCategories godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories [get]
func (h *CategoryHandler) ListCategoriesDoc() {}

// GetCategory godoc
// @Summary Get category by ID
// @Tags Categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} domain.Category
// @Failure 404 {object} response.ErrorBody
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategoryDoc() {}

// UpdateCategory godoc
// @Summary Update a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body object{name=string,description=string} true "Fields to change"
// @Success 200 {object} domain.Category
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategoryDoc() {}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Products keep their category id after the category is deleted
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.MessageBody
// @Failure 404 {object} response.ErrorBody
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategoryDoc() {}
