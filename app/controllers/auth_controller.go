package controllers

import (
	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
)

type AuthController struct {
	users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{users: users}
}

func (c *AuthController) Register(x *ctx.Context) {
	var in services.RegisterInput
	if !x.BindJSON(&in) {
		return
	}
	s, err := c.users.Register(x.Context(), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Created(s)
}

func (c *AuthController) Login(x *ctx.Context) {
	var in services.LoginInput
	if !x.BindJSON(&in) {
		return
	}
	s, err := c.users.Login(x.Context(), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(s)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (c *AuthController) Refresh(x *ctx.Context) {
	var in refreshRequest
	if !x.BindJSON(&in) {
		return
	}
	s, err := c.users.Refresh(x.Context(), in.RefreshToken)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(s)
}

func (c *AuthController) Me(x *ctx.Context) {
	u, err := c.users.Get(x.Context(), x.UserID())
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(u)
}

// Users is the admin view over accounts.
func (c *AuthController) Users(x *ctx.Context) {
	items, meta, err := c.users.List(x.Context(), page(x))
	if err != nil {
		fail(x, err)
		return
	}
	x.Paginated(items, meta)
}

func (c *AuthController) SetRole(x *ctx.Context) {
	var in services.RoleInput
	if !x.BindJSON(&in) {
		return
	}
	u, err := c.users.SetRole(x.Context(), x.Param("id"), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(u)
}
