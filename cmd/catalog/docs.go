package main

// @title Product Catalog API
// @version 1.0
// @description Product catalog with category resolution, inventory merging and reporting, with full observability (logging, tracing, metrics)

// @contact.name API Support
// @contact.email support@productcatalog.com

// @license.name MIT

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Registration and login

// @tag.name Users
// @tag.description Account administration

// @tag.name Categories
// @tag.description Category management

// @tag.name Products
// @tag.description Product catalog, upsert and filtering

// @tag.name Reports
// @tag.description Inventory reports
