package models

import (
	"github.com/patric-chuzhbe/storeapi/internal/product"
	"github.com/patric-chuzhbe/storeapi/internal/user"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UsersListResponse struct {
	TotalUsers int         `json:"total_users"`
	Users      []user.User `json:"users"`
}

type ProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
	ImageURL    string  `json:"imageUrl" validate:"required,url"`
	Unit        string  `json:"unit" validate:"required"`
}

type ProductsListResponse struct {
	TotalProducts int               `json:"total_products"`
	Products      []product.Product `json:"products"`
}

// MessageResponse is the body of confirmation and error responses.
type MessageResponse struct {
	Msg string `json:"msg"`
}
