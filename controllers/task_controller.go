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

type TaskController struct {
	Store  store.Store
	Logger *logrus.Logger
}

func NewTaskController(st store.Store, logger *logrus.Logger) *TaskController {
	return &TaskController{Store: st, Logger: logger}
}

type CreateTaskRequest struct {
	ProjectID   uint         `json:"projectId" validate:"required"`
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description" validate:"omitempty,max=5000"`
	Status      string       `json:"status"`
	Order       int          `json:"order"`
	Priority    string       `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssigneeID  *uint        `json:"assigneeId"`
	StartDate   *models.Date `json:"startDate"`
	DueDate     *models.Date `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       *string      `json:"title" validate:"omitempty,max=200"`
	Description *string      `json:"description" validate:"omitempty,max=5000"`
	Status      *string      `json:"status"`
	Order       *int         `json:"order"`
	Priority    *string      `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssigneeID  *uint        `json:"assigneeId"`
	StartDate   *models.Date `json:"startDate"`
	DueDate     *models.Date `json:"dueDate"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Order  int    `json:"order"`
}

// List returns tasks scoped by ?projectId= or ?assigneeId=. Querying
// another user's assigned tasks is always forbidden, including for admins.
// With no scope the actor's own assigned tasks are returned.
func (tc *TaskController) List(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	ctx := c.UserContext()

	if scope := c.Query("projectId"); scope != "" {
		projectID, ok := parseID(scope)
		if !ok {
			return notFound(c, "Project")
		}
		teamID, err := authz.ProjectTeam(ctx, tc.Store, projectID)
		if err != nil {
			return respondErr(c, tc.Logger, err)
		}
		if err := authz.Can(ctx, tc.Store, actor.ID, authz.ResourceTask, authz.ActionRead, teamID, 0); err != nil {
			return respondErr(c, tc.Logger, err)
		}
		tasks, err := tc.Store.TasksByProject(ctx, projectID)
		if err != nil {
			return respondErr(c, tc.Logger, err)
		}
		return c.JSON(tasks)
	}

	if scope := c.Query("assigneeId"); scope != "" {
		assigneeID, ok := parseID(scope)
		if !ok || assigneeID != actor.ID {
			return forbidden(c, "You can only list your own assigned tasks")
		}
	}

	tasks, err := tc.Store.TasksByAssignee(ctx, actor.ID)
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}
	return c.JSON(tasks)
}

func (tc *TaskController) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}
	status := req.Status
	if status == "" {
		status = "todo"
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	ctx := c.UserContext()
	task := models.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Order:       req.Order,
		Priority:    priority,
		AssigneeID:  req.AssigneeID,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	}
	err := tc.Store.Transact(ctx, func(tx store.Store) error {
		teamID, err := authz.ProjectTeam(ctx, tx, req.ProjectID)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceTask, authz.ActionCreate, teamID, 0); err != nil {
			return err
		}
		return tx.CreateTask(ctx, &task)
	})
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

func (tc *TaskController) Get(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Task")
	}

	ctx := c.UserContext()
	task, err := tc.Store.TaskByID(ctx, id)
	if err != nil {
		return respondErr(c, tc.Logger, authz.NotFound("Task", err))
	}
	teamID, err := authz.TaskTeam(ctx, tc.Store, id)
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}
	if err := authz.Can(ctx, tc.Store, actor.ID, authz.ResourceTask, authz.ActionRead, teamID, 0); err != nil {
		return respondErr(c, tc.Logger, err)
	}
	return c.JSON(task)
}

// Update edits task fields; any team member may update. ProjectID is
// immutable.
func (tc *TaskController) Update(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Task")
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}

	ctx := c.UserContext()
	var task *models.Task
	err := tc.Store.Transact(ctx, func(tx store.Store) error {
		teamID, err := authz.TaskTeam(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceTask, authz.ActionUpdate, teamID, 0); err != nil {
			return err
		}
		task, err = tx.TaskByID(ctx, id)
		if err != nil {
			return authz.NotFound("Task", err)
		}
		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.Status != nil {
			task.Status = *req.Status
		}
		if req.Order != nil {
			task.Order = *req.Order
		}
		if req.Priority != nil {
			task.Priority = *req.Priority
		}
		if req.AssigneeID != nil {
			task.AssigneeID = req.AssigneeID
		}
		if req.StartDate != nil {
			task.StartDate = req.StartDate
		}
		if req.DueDate != nil {
			task.DueDate = req.DueDate
		}
		return tx.SaveTask(ctx, task)
	})
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}
	return c.JSON(task)
}

// UpdateStatus moves a task between kanban columns, updating status and
// rank together.
func (tc *TaskController) UpdateStatus(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Task")
	}

	var req UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}

	ctx := c.UserContext()
	var task *models.Task
	err := tc.Store.Transact(ctx, func(tx store.Store) error {
		teamID, err := authz.TaskTeam(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceTask, authz.ActionUpdate, teamID, 0); err != nil {
			return err
		}
		task, err = tx.TaskByID(ctx, id)
		if err != nil {
			return authz.NotFound("Task", err)
		}
		task.Status = req.Status
		task.Order = req.Order
		return tx.SaveTask(ctx, task)
	})
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}
	return c.JSON(task)
}

func (tc *TaskController) Delete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Task")
	}

	ctx := c.UserContext()
	err := tc.Store.Transact(ctx, func(tx store.Store) error {
		teamID, err := authz.TaskTeam(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceTask, authz.ActionDelete, teamID, 0); err != nil {
			return err
		}
		return tx.DeleteTask(ctx, id)
	})
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}
	return c.JSON(fiber.Map{"message": "Task deleted"})
}
