package http

// CreateProduct godoc
// @Summary Create or restock a product
// @Description Creates a product, or merges stock and variants into an existing product with the same name, category and overlapping sizes and colors (Admin only)
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,category=string,price=number,salePrice=number,discountPercentage=number,stock=int,image=string,variants=[]object{size=string,color=string,quantity=int}} true "Product data"
// @Success 201 {object} domain.Product
// @Success 200 {object} ProductEnvelope
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /products [post]
func (h *ProductHandler) CreateProductDoc() {}

// ListProducts godoc
// @Summary List products
// @Description Search, color and size are ORed; every other filter is ANDed
// @Tags Products
// @Produce json
// @Param search query string false "Name contains"
// @Param categories query string false "Category name"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param onSale query boolean false "Only products on sale"
// @Param color query string false "Variant color contains"
// @Param size query string false "Variant size contains"
// @Param createdAfter query string false "ISO 8601 date"
// @Param createdBefore query string false "ISO 8601 date"
// @Success 200 {array} domain.Product
// @Failure 400 {object} response.ErrorBody
// @Router /products [get]
func (h *ProductHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /products/{id} [get]
func (h *ProductHandler) GetProductDoc() {}

// UpdateProduct godoc
// @Summary Update a product
// @Description Stock and variants are added to the current inventory; other fields are replaced (Admin only)
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body object{name=string,description=string,category=string,price=number,salePrice=number,discountPercentage=number,stock=int,image=string,variants=[]object{size=string,color=string,quantity=int}} true "Fields to change"
// @Success 200 {object} ProductEnvelope
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.MessageBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProductDoc() {}

// LowStockReport godoc
// @Summary Products with stock below a threshold
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Param threshold query int false "1 to 1000, default 10"
// @Success 200 {object} domain.LowStockReport
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /products/reports/low-stock [get]
func (h *ProductHandler) LowStockReportDoc() {}

// OnSaleReport godoc
// @Summary Products on sale and the total discount value
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.OnSaleReport
// @Failure 403 {object} response.ErrorBody
// @Router /products/reports/on-sale [get]
func (h *ProductHandler) OnSaleReportDoc() {}

// InventoryReport godoc
// @Summary Inventory totals grouped by category
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.InventorySummary
// @Failure 403 {object} response.ErrorBody
// @Router /products/reports/inventory [get]
func (h *ProductHandler) InventoryReportDoc() {}
