package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"teamhub/config"
	"teamhub/middleware"
	"teamhub/models"
	"teamhub/session"
	"teamhub/store"
	"teamhub/utils"
)

// bootstrapUsername is the distinguished seed identity: logging in as it
// with the configured bootstrap credential provisions a global admin
// account on an empty store.
const bootstrapUsername = "admin"

type AuthController struct {
	Store    store.Store
	Sessions session.Manager
	Logger   *logrus.Logger
}

func NewAuthController(st store.Store, sessions session.Manager, logger *logrus.Logger) *AuthController {
	return &AuthController{Store: st, Sessions: sessions, Logger: logger}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}

	ctx := c.UserContext()
	user, err := ac.Store.UserByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return respondErr(c, ac.Logger, err)
		}
		if req.Username != bootstrapUsername || req.Password != config.AppConfig.AdminPassword {
			return invalidCredentials(c)
		}
		user, err = ac.bootstrapAdmin(c, req.Password)
		if err != nil {
			return respondErr(c, ac.Logger, err)
		}
	} else {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			return invalidCredentials(c)
		}
	}

	token, err := ac.Sessions.Create(ctx, user.ID)
	if err != nil {
		return respondErr(c, ac.Logger, err)
	}
	setSessionCookie(c, token)

	ac.Logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("user logged in")

	return c.JSON(user)
}

func (ac *AuthController) bootstrapAdmin(c *fiber.Ctx, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: bootstrapUsername,
		Email:    "admin@localhost",
		Password: string(hash),
		FullName: "Administrator",
		Role:     models.RoleAdmin,
	}
	if err := ac.Store.CreateUser(c.UserContext(), user); err != nil {
		return nil, err
	}
	ac.Logger.WithField("user_id", user.ID).Info("bootstrap admin account provisioned")
	return user, nil
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	token := c.Locals("sessionToken").(string)
	if err := ac.Sessions.Destroy(c.UserContext(), token); err != nil {
		// Failing to invalidate a session is a fatal internal error for
		// this request; the client must not believe it is logged out.
		return respondErr(c, ac.Logger, err)
	}
	clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	user, err := ac.Store.UserByID(c.UserContext(), actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "User")
		}
		return respondErr(c, ac.Logger, err)
	}
	return c.JSON(user)
}

// The unauthorized response never distinguishes an unknown username from a
// wrong password.
func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid username or password",
	})
}

func setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		MaxAge:   int(session.TTL.Seconds()),
		Expires:  time.Now().Add(session.TTL),
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		SameSite: "Lax",
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		SameSite: "Lax",
	})
}
