package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"teamhub/middleware"
	"teamhub/models"
	"teamhub/store"
	"teamhub/utils"
)

type UserController struct {
	Store  store.Store
	Logger *logrus.Logger
}

func NewUserController(st store.Store, logger *logrus.Logger) *UserController {
	return &UserController{Store: st, Logger: logger}
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"omitempty,max=100"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role" validate:"omitempty,oneof=admin member"`
	UserType string `json:"userType"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	FullName *string `json:"fullName" validate:"omitempty,max=100"`
	Avatar   *string `json:"avatar"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin member"`
	UserType *string `json:"userType"`
}

// List is open to any authenticated user.
func (uc *UserController) List(c *fiber.Ctx) error {
	users, err := uc.Store.Users(c.UserContext())
	if err != nil {
		return respondErr(c, uc.Logger, err)
	}
	return c.JSON(users)
}

// Get is open to any authenticated user.
func (uc *UserController) Get(c *fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "User")
	}
	user, err := uc.Store.UserByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "User")
		}
		return respondErr(c, uc.Logger, err)
	}
	return c.JSON(user)
}

// Create is restricted to global admins.
func (uc *UserController) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if !actor.IsAdmin() {
		return forbidden(c, "Only admins can create users")
	}

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		return validationFailed(c, []utils.FieldError{{Field: "email", Message: "email must be a valid email"}})
	}

	ctx := c.UserContext()
	if _, err := uc.Store.UserByUsername(ctx, req.Username); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username already taken",
		})
	} else if !errors.Is(err, store.ErrNotFound) {
		return respondErr(c, uc.Logger, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondErr(c, uc.Logger, err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	userType := req.UserType
	if userType == "" {
		userType = "standard"
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		FullName: req.FullName,
		Avatar:   req.Avatar,
		Role:     role,
		UserType: userType,
	}
	if err := uc.Store.CreateUser(ctx, &user); err != nil {
		return respondErr(c, uc.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Update allows self-service edits and global-admin edits. Changing the
// global role is reserved to global admins, which also blocks a member
// from elevating themselves.
func (uc *UserController) Update(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "User")
	}
	if actor.ID != id && !actor.IsAdmin() {
		return forbidden(c, "You can only update your own account")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}
	if req.Role != nil && !actor.IsAdmin() {
		return forbidden(c, "Only admins can change roles")
	}

	ctx := c.UserContext()
	user, err := uc.Store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "User")
		}
		return respondErr(c, uc.Logger, err)
	}

	if req.Email != nil {
		if err := utils.ValidateEmail(*req.Email); err != nil {
			return validationFailed(c, []utils.FieldError{{Field: "email", Message: "email must be a valid email"}})
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return respondErr(c, uc.Logger, err)
		}
		user.Password = string(hash)
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.UserType != nil {
		user.UserType = *req.UserType
	}

	if err := uc.Store.SaveUser(ctx, user); err != nil {
		return respondErr(c, uc.Logger, err)
	}
	return c.JSON(user)
}

// Delete is restricted to global admins, and admins cannot delete
// themselves.
func (uc *UserController) Delete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if !actor.IsAdmin() {
		return forbidden(c, "Only admins can delete users")
	}
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "User")
	}
	if id == actor.ID {
		return forbidden(c, "You cannot delete your own account")
	}

	if err := uc.Store.DeleteUser(c.UserContext(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "User")
		}
		return respondErr(c, uc.Logger, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
