package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"teamhub/authz"
	"teamhub/middleware"
	"teamhub/models"
	"teamhub/store"
	"teamhub/utils"
)

type CommentController struct {
	Store  store.Store
	Logger *logrus.Logger
}

func NewCommentController(st store.Store, logger *logrus.Logger) *CommentController {
	return &CommentController{Store: st, Logger: logger}
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// List returns a task's comments with author info attached.
func (cc *CommentController) List(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	taskID, ok := parseID(c.Params("taskId"))
	if !ok {
		return notFound(c, "Task")
	}

	ctx := c.UserContext()
	teamID, err := authz.TaskTeam(ctx, cc.Store, taskID)
	if err != nil {
		return respondErr(c, cc.Logger, err)
	}
	if err := authz.Can(ctx, cc.Store, actor.ID, authz.ResourceComment, authz.ActionRead, teamID, 0); err != nil {
		return respondErr(c, cc.Logger, err)
	}

	comments, err := cc.Store.CommentsByTask(ctx, taskID)
	if err != nil {
		return respondErr(c, cc.Logger, err)
	}
	return c.JSON(comments)
}

// Create posts a comment. The author is always the acting session user;
// the response carries a freshly-fetched author record.
func (cc *CommentController) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	taskID, ok := parseID(c.Params("taskId"))
	if !ok {
		return notFound(c, "Task")
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}

	ctx := c.UserContext()
	comment := models.Comment{TaskID: taskID, UserID: actor.ID, Body: req.Body}
	err := cc.Store.Transact(ctx, func(tx store.Store) error {
		teamID, err := authz.TaskTeam(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceComment, authz.ActionCreate, teamID, 0); err != nil {
			return err
		}
		return tx.CreateComment(ctx, &comment)
	})
	if err != nil {
		return respondErr(c, cc.Logger, err)
	}

	author, err := cc.Store.UserByID(ctx, actor.ID)
	if err != nil {
		return respondErr(c, cc.Logger, err)
	}
	comment.User = author

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// Delete removes a comment: the author may always delete their own, a team
// admin may delete anyone's.
func (cc *CommentController) Delete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Comment")
	}

	ctx := c.UserContext()
	err := cc.Store.Transact(ctx, func(tx store.Store) error {
		comment, err := tx.CommentByID(ctx, id)
		if err != nil {
			return authz.NotFound("Comment", err)
		}
		teamID, err := authz.CommentTeam(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceComment, authz.ActionDelete, teamID, comment.UserID); err != nil {
			return err
		}
		return tx.DeleteComment(ctx, id)
	})
	if err != nil {
		return respondErr(c, cc.Logger, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
