// Package router maps the HTTP surface of the service onto the user
// and product repositories, translating repository results into
// status codes and JSON bodies.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/storeapi/internal/logger"
	"github.com/patric-chuzhbe/storeapi/internal/models"
	"github.com/patric-chuzhbe/storeapi/internal/product"
	"github.com/patric-chuzhbe/storeapi/internal/products"
	"github.com/patric-chuzhbe/storeapi/internal/user"
	"github.com/patric-chuzhbe/storeapi/internal/users"
)

const (
	msgMissingFields      = "Please provide all fields"
	msgUserExists         = "User already exists"
	msgUserNotFound       = "User not found"
	msgUserLoggedIn       = "User logged in"
	msgUserDeleted        = "User deleted"
	msgInvalidCredentials = "Invalid credentials"
	msgProductNotFound    = "Product not found"
	msgProductDeleted     = "Product deleted"
	msgInternalError      = "Internal server error"
)

type usersRepository interface {
	FindAll(ctx context.Context) ([]user.User, error)
	FindOne(ctx context.Context, id string) (user.User, bool, error)
	FindByEmail(ctx context.Context, email string) (user.User, bool, error)
	Create(ctx context.Context, username, email, password string) (user.User, error)
	Update(ctx context.Context, id string, upd users.Update) (user.User, bool, error)
	Remove(ctx context.Context, id string) (bool, error)
	ComparePassword(ctx context.Context, email, password string) (user.User, bool, error)
}

type productsRepository interface {
	FindAll(ctx context.Context) ([]product.Product, error)
	FindOne(ctx context.Context, id int64) (product.Product, bool, error)
	Create(ctx context.Context, name string, price float64, description, imageURL, unit string) (product.Product, error)
	Update(ctx context.Context, id int64, upd products.Update) (product.Product, bool, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type sessionIssuer interface {
	SetSessionCookie(response http.ResponseWriter, userID string) error
}

// Router holds the repositories and helpers the handlers work with.
type Router struct {
	users    usersRepository
	products productsRepository
	auth     sessionIssuer
	validate *validator.Validate
}

// New wires every route of the service into a chi mux.
func New(
	usersRepo usersRepository,
	productsRepo productsRepository,
	auth sessionIssuer,
) *chi.Mux {
	theRouter := &Router{
		users:    usersRepo,
		products: productsRepo,
		auth:     auth,
		validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)

	router.Get(`/users`, theRouter.GetUsers)
	router.Get(`/users/{id}`, theRouter.GetUser)
	router.Post(`/users/register`, theRouter.PostUsersregister)
	router.Post(`/users/login`, theRouter.PostUserslogin)
	router.Put(`/users/{id}`, theRouter.PutUser)
	router.Delete(`/users/{id}`, theRouter.DeleteUser)

	router.Get(`/products`, theRouter.GetProducts)
	router.Get(`/products/{id}`, theRouter.GetProduct)
	router.Post(`/products`, theRouter.PostProducts)
	router.Put(`/products/{id}`, theRouter.PutProduct)
	router.Delete(`/products/{id}`, theRouter.DeleteProduct)

	return router
}

// GetUsers returns the whole users collection with its size.
func (rt *Router) GetUsers(res http.ResponseWriter, req *http.Request) {
	allUsers, err := rt.users.FindAll(req.Context())
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.users.FindAll()`:", err)
		return
	}

	rt.writeJSON(res, http.StatusOK, models.UsersListResponse{
		TotalUsers: len(allUsers),
		Users:      allUsers,
	})
}

// GetUser returns a single user by ID.
func (rt *Router) GetUser(res http.ResponseWriter, req *http.Request) {
	usr, found, err := rt.users.FindOne(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.users.FindOne()`:", err)
		return
	}
	if !found {
		rt.writeMessage(res, http.StatusNotFound, msgUserNotFound)
		return
	}

	rt.writeJSON(res, http.StatusOK, usr)
}

// PostUsersregister creates a new user after rejecting duplicate
// emails.
func (rt *Router) PostUsersregister(res http.ResponseWriter, req *http.Request) {
	var request models.RegisterRequest
	if !rt.readJSON(res, req, &request) {
		return
	}

	_, found, err := rt.users.FindByEmail(req.Context(), request.Email)
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.users.FindByEmail()`:", err)
		return
	}
	if found {
		rt.writeMessage(res, http.StatusBadRequest, msgUserExists)
		return
	}

	usr, err := rt.users.Create(req.Context(), request.Username, request.Email, request.Password)
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.users.Create()`:", err)
		return
	}

	rt.writeJSON(res, http.StatusCreated, usr)
}

// PostUserslogin verifies the supplied credentials and sets the
// session cookie on success.
func (rt *Router) PostUserslogin(res http.ResponseWriter, req *http.Request) {
	var request models.LoginRequest
	if !rt.readJSON(res, req, &request) {
		return
	}

	_, found, err := rt.users.FindByEmail(req.Context(), request.Email)
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.users.FindByEmail()`:", err)
		return
	}
	if !found {
		rt.writeMessage(res, http.StatusNotFound, msgUserNotFound)
		return
	}

	usr, matched, err := rt.users.ComparePassword(req.Context(), request.Email, request.Password)
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.users.ComparePassword()`:", err)
		return
	}
	if !matched {
		rt.writeMessage(res, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if err := rt.auth.SetSessionCookie(res, usr.ID); err != nil {
		rt.internalServerError(res, "Error calling the `rt.auth.SetSessionCookie()`:", err)
		return
	}

	rt.writeMessage(res, http.StatusOK, msgUserLoggedIn)
}

// PutUser updates an existing user. The stored password digest is
// replaced with a digest of the supplied password.
func (rt *Router) PutUser(res http.ResponseWriter, req *http.Request) {
	var request models.UserUpdateRequest
	if !rt.readJSON(res, req, &request) {
		return
	}

	usr, found, err := rt.users.Update(
		req.Context(),
		chi.URLParam(req, "id"),
		users.Update{
			Username: request.Username,
			Email:    request.Email,
			Password: request.Password,
		},
	)
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.users.Update()`:", err)
		return
	}
	if !found {
		rt.writeMessage(res, http.StatusNotFound, msgUserNotFound)
		return
	}

	rt.writeJSON(res, http.StatusOK, usr)
}

// DeleteUser removes a user by ID.
func (rt *Router) DeleteUser(res http.ResponseWriter, req *http.Request) {
	found, err := rt.users.Remove(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.users.Remove()`:", err)
		return
	}
	if !found {
		rt.writeMessage(res, http.StatusNotFound, msgUserNotFound)
		return
	}

	rt.writeMessage(res, http.StatusOK, msgUserDeleted)
}

// GetProducts returns the whole products collection with its size.
func (rt *Router) GetProducts(res http.ResponseWriter, req *http.Request) {
	allProducts, err := rt.products.FindAll(req.Context())
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.products.FindAll()`:", err)
		return
	}

	rt.writeJSON(res, http.StatusOK, models.ProductsListResponse{
		TotalProducts: len(allProducts),
		Products:      allProducts,
	})
}

// GetProduct returns a single product by ID.
func (rt *Router) GetProduct(res http.ResponseWriter, req *http.Request) {
	id, ok := rt.productID(res, req)
	if !ok {
		return
	}

	prd, found, err := rt.products.FindOne(req.Context(), id)
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.products.FindOne()`:", err)
		return
	}
	if !found {
		rt.writeMessage(res, http.StatusNotFound, msgProductNotFound)
		return
	}

	rt.writeJSON(res, http.StatusOK, prd)
}

// PostProducts creates a new product.
func (rt *Router) PostProducts(res http.ResponseWriter, req *http.Request) {
	var request models.ProductRequest
	if !rt.readJSON(res, req, &request) {
		return
	}

	prd, err := rt.products.Create(
		req.Context(),
		request.Name,
		request.Price,
		request.Description,
		request.ImageURL,
		request.Unit,
	)
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.products.Create()`:", err)
		return
	}

	rt.writeJSON(res, http.StatusCreated, prd)
}

// PutProduct updates an existing product.
func (rt *Router) PutProduct(res http.ResponseWriter, req *http.Request) {
	var request models.ProductRequest
	if !rt.readJSON(res, req, &request) {
		return
	}

	id, ok := rt.productID(res, req)
	if !ok {
		return
	}

	prd, found, err := rt.products.Update(
		req.Context(),
		id,
		products.Update{
			Name:        request.Name,
			Price:       request.Price,
			Description: request.Description,
			ImageURL:    request.ImageURL,
			Unit:        request.Unit,
		},
	)
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.products.Update()`:", err)
		return
	}
	if !found {
		rt.writeMessage(res, http.StatusNotFound, msgProductNotFound)
		return
	}

	rt.writeJSON(res, http.StatusOK, prd)
}

// DeleteProduct removes a product by ID.
func (rt *Router) DeleteProduct(res http.ResponseWriter, req *http.Request) {
	id, ok := rt.productID(res, req)
	if !ok {
		return
	}

	found, err := rt.products.Remove(req.Context(), id)
	if err != nil {
		rt.internalServerError(res, "Error calling the `rt.products.Remove()`:", err)
		return
	}
	if !found {
		rt.writeMessage(res, http.StatusNotFound, msgProductNotFound)
		return
	}

	rt.writeMessage(res, http.StatusOK, msgProductDeleted)
}

// productID parses the {id} route parameter. A non-numeric ID cannot
// name an existing product, so it is reported as not found.
func (rt *Router) productID(res http.ResponseWriter, req *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		rt.writeMessage(res, http.StatusNotFound, msgProductNotFound)
		return 0, false
	}

	return id, true
}

// readJSON decodes and validates the request body. It writes the 400
// response itself and reports whether the handler may proceed.
func (rt *Router) readJSON(res http.ResponseWriter, req *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(req.Body).Decode(dest); err != nil {
		rt.writeMessage(res, http.StatusBadRequest, msgMissingFields)
		return false
	}

	if err := rt.validate.Struct(dest); err != nil {
		rt.writeMessage(res, http.StatusBadRequest, msgMissingFields)
		return false
	}

	return true
}

func (rt *Router) writeJSON(res http.ResponseWriter, status int, payload interface{}) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	if err := json.NewEncoder(res).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response body:", zap.Error(err))
	}
}

func (rt *Router) writeMessage(res http.ResponseWriter, status int, msg string) {
	rt.writeJSON(res, status, models.MessageResponse{Msg: msg})
}

// internalServerError logs the cause and answers with a sanitized
// body. Internal failures are never surfaced to the client.
func (rt *Router) internalServerError(res http.ResponseWriter, context string, err error) {
	logger.Log.Debugln(context, zap.Error(err))
	rt.writeMessage(res, http.StatusInternalServerError, msgInternalError)
}
