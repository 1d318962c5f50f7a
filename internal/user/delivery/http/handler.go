package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/product-catalog/internal/user/usecase/command"
	"github.com/tair/product-catalog/internal/user/usecase/query"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/middleware"
	"github.com/tair/product-catalog/pkg/response"
)

// UserHandler handles HTTP requests for accounts
type UserHandler struct {
	registerHandler *command.RegisterUserHandler
	loginHandler    *command.LoginUserHandler
	listHandler     *query.ListUsersHandler

	auth *middleware.Authenticator
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	listHandler *query.ListUsersHandler,
	auth *middleware.Authenticator,
) *UserHandler {
	return &UserHandler{
		registerHandler: registerHandler,
		loginHandler:    loginHandler,
		listHandler:     listHandler,
		auth:            auth,
	}
}

// RegisterRoutes registers auth and user routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/users", h.auth.Authorize(auth.RoleAdmin, h.ListUsers)).Methods(http.MethodGet)
}

// Register handles POST /auth/register. Any role in the body is ignored.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	user, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := response.DecodeJSON(r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	result, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.listHandler.Handle(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, users)
}
