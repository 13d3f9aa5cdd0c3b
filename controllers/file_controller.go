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

// FileController manages upload metadata; file content lives in external
// storage and is out of scope here.
type FileController struct {
	Store  store.Store
	Logger *logrus.Logger
}

func NewFileController(st store.Store, logger *logrus.Logger) *FileController {
	return &FileController{Store: st, Logger: logger}
}

type CreateFileRequest struct {
	ProjectID uint   `json:"projectId" validate:"required"`
	TaskID    *uint  `json:"taskId"`
	Name      string `json:"name" validate:"required,max=255"`
	Size      int64  `json:"size" validate:"omitempty,min=0"`
	URL       string `json:"url" validate:"omitempty,max=2000"`
}

// ListByProject returns a project's files, visible to team members.
func (fc *FileController) ListByProject(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	projectID, ok := parseID(c.Params("projectId"))
	if !ok {
		return notFound(c, "Project")
	}

	ctx := c.UserContext()
	teamID, err := authz.ProjectTeam(ctx, fc.Store, projectID)
	if err != nil {
		return respondErr(c, fc.Logger, err)
	}
	if err := authz.Can(ctx, fc.Store, actor.ID, authz.ResourceFile, authz.ActionRead, teamID, 0); err != nil {
		return respondErr(c, fc.Logger, err)
	}

	files, err := fc.Store.FilesByProject(ctx, projectID)
	if err != nil {
		return respondErr(c, fc.Logger, err)
	}
	return c.JSON(files)
}

// ListByTask returns files attached to one task.
func (fc *FileController) ListByTask(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	taskID, ok := parseID(c.Params("taskId"))
	if !ok {
		return notFound(c, "Task")
	}

	ctx := c.UserContext()
	teamID, err := authz.TaskTeam(ctx, fc.Store, taskID)
	if err != nil {
		return respondErr(c, fc.Logger, err)
	}
	if err := authz.Can(ctx, fc.Store, actor.ID, authz.ResourceFile, authz.ActionRead, teamID, 0); err != nil {
		return respondErr(c, fc.Logger, err)
	}

	files, err := fc.Store.FilesByTask(ctx, taskID)
	if err != nil {
		return respondErr(c, fc.Logger, err)
	}
	return c.JSON(files)
}

// Create records upload metadata. The uploader is always the acting
// session user.
func (fc *FileController) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req CreateFileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}

	ctx := c.UserContext()
	file := models.File{
		ProjectID:  req.ProjectID,
		TaskID:     req.TaskID,
		UploadedBy: actor.ID,
		Name:       req.Name,
		Size:       req.Size,
		URL:        req.URL,
	}
	err := fc.Store.Transact(ctx, func(tx store.Store) error {
		teamID, err := authz.ProjectTeam(ctx, tx, req.ProjectID)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceFile, authz.ActionCreate, teamID, 0); err != nil {
			return err
		}
		if req.TaskID != nil {
			task, err := tx.TaskByID(ctx, *req.TaskID)
			if err != nil {
				return authz.NotFound("Task", err)
			}
			if task.ProjectID != req.ProjectID {
				return errTaskProjectMismatch
			}
		}
		return tx.CreateFile(ctx, &file)
	})
	if err == errTaskProjectMismatch {
		return badRequest(c, "Task does not belong to the given project")
	}
	if err != nil {
		return respondErr(c, fc.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(file)
}

var errTaskProjectMismatch = fiber.NewError(fiber.StatusBadRequest, "task/project mismatch")

// Delete removes file metadata: the uploader may always delete their own,
// a team admin may delete anyone's.
func (fc *FileController) Delete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "File")
	}

	ctx := c.UserContext()
	err := fc.Store.Transact(ctx, func(tx store.Store) error {
		file, err := tx.FileByID(ctx, id)
		if err != nil {
			return authz.NotFound("File", err)
		}
		teamID, err := authz.FileTeam(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceFile, authz.ActionDelete, teamID, file.UploadedBy); err != nil {
			return err
		}
		return tx.DeleteFile(ctx, id)
	})
	if err != nil {
		return respondErr(c, fc.Logger, err)
	}
	return c.JSON(fiber.Map{"message": "File deleted"})
}
