package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"teamhub/authz"
	"teamhub/middleware"
	"teamhub/models"
	"teamhub/store"
	"teamhub/utils"
)

// MessageController serves team chat. Delivery is pull-based; real-time
// push is out of scope.
type MessageController struct {
	Store  store.Store
	Logger *logrus.Logger
}

func NewMessageController(st store.Store, logger *logrus.Logger) *MessageController {
	return &MessageController{Store: st, Logger: logger}
}

type CreateMessageRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// List returns a team's messages with author info attached.
func (mc *MessageController) List(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	teamID, ok := parseID(c.Params("teamId"))
	if !ok {
		return notFound(c, "Team")
	}

	ctx := c.UserContext()
	if _, err := mc.Store.TeamByID(ctx, teamID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Team")
		}
		return respondErr(c, mc.Logger, err)
	}
	if err := authz.Can(ctx, mc.Store, actor.ID, authz.ResourceMessage, authz.ActionRead, teamID, 0); err != nil {
		return respondErr(c, mc.Logger, err)
	}

	messages, err := mc.Store.MessagesByTeam(ctx, teamID)
	if err != nil {
		return respondErr(c, mc.Logger, err)
	}
	return c.JSON(messages)
}

// Create posts a chat message. The author is always the acting session
// user; the response carries a freshly-fetched author record.
func (mc *MessageController) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	teamID, ok := parseID(c.Params("teamId"))
	if !ok {
		return notFound(c, "Team")
	}

	var req CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}

	ctx := c.UserContext()
	message := models.Message{TeamID: teamID, UserID: actor.ID, Body: req.Body}
	err := mc.Store.Transact(ctx, func(tx store.Store) error {
		if _, err := tx.TeamByID(ctx, teamID); err != nil {
			return authz.NotFound("Team", err)
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceMessage, authz.ActionCreate, teamID, 0); err != nil {
			return err
		}
		return tx.CreateMessage(ctx, &message)
	})
	if err != nil {
		return respondErr(c, mc.Logger, err)
	}

	author, err := mc.Store.UserByID(ctx, actor.ID)
	if err != nil {
		return respondErr(c, mc.Logger, err)
	}
	message.User = author

	return c.Status(fiber.StatusCreated).JSON(message)
}

// Delete removes a message: the author may always delete their own, a
// team admin may delete anyone's.
func (mc *MessageController) Delete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Message")
	}

	ctx := c.UserContext()
	err := mc.Store.Transact(ctx, func(tx store.Store) error {
		message, err := tx.MessageByID(ctx, id)
		if err != nil {
			return authz.NotFound("Message", err)
		}
		teamID, err := authz.MessageTeam(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceMessage, authz.ActionDelete, teamID, message.UserID); err != nil {
			return err
		}
		return tx.DeleteMessage(ctx, id)
	})
	if err != nil {
		return respondErr(c, mc.Logger, err)
	}
	return c.JSON(fiber.Map{"message": "Message deleted"})
}
