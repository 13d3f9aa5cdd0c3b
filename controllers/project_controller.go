package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"teamhub/authz"
	"teamhub/middleware"
	"teamhub/models"
	"teamhub/store"
	"teamhub/utils"
)

type ProjectController struct {
	Store  store.Store
	Logger *logrus.Logger
}

func NewProjectController(st store.Store, logger *logrus.Logger) *ProjectController {
	return &ProjectController{Store: st, Logger: logger}
}

type CreateProjectRequest struct {
	TeamID      uint         `json:"teamId" validate:"required"`
	Name        string       `json:"name" validate:"required,max=100"`
	Description string       `json:"description" validate:"omitempty,max=2000"`
	Status      string       `json:"status"`
	StartDate   *models.Date `json:"startDate"`
	DueDate     *models.Date `json:"dueDate"`
}

type UpdateProjectRequest struct {
	Name        *string      `json:"name" validate:"omitempty,max=100"`
	Description *string      `json:"description" validate:"omitempty,max=2000"`
	Status      *string      `json:"status"`
	StartDate   *models.Date `json:"startDate"`
	DueDate     *models.Date `json:"dueDate"`
}

// List returns projects scoped to ?teamId= when present, otherwise the
// union of projects across every team the actor belongs to. The per-team
// reads are dispatched concurrently and merged in team order.
func (pc *ProjectController) List(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	ctx := c.UserContext()

	if scope := c.Query("teamId"); scope != "" {
		teamID, ok := parseID(scope)
		if !ok {
			return notFound(c, "Team")
		}
		if _, err := pc.Store.TeamByID(ctx, teamID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound(c, "Team")
			}
			return respondErr(c, pc.Logger, err)
		}
		if err := authz.Can(ctx, pc.Store, actor.ID, authz.ResourceProject, authz.ActionRead, teamID, 0); err != nil {
			return respondErr(c, pc.Logger, err)
		}
		projects, err := pc.Store.ProjectsByTeam(ctx, teamID)
		if err != nil {
			return respondErr(c, pc.Logger, err)
		}
		return c.JSON(projects)
	}

	teams, err := pc.Store.TeamsForUser(ctx, actor.ID)
	if err != nil {
		return respondErr(c, pc.Logger, err)
	}

	perTeam := make([][]models.Project, len(teams))
	g, gctx := errgroup.WithContext(ctx)
	for i, team := range teams {
		i, teamID := i, team.ID
		g.Go(func() error {
			projects, err := pc.Store.ProjectsByTeam(gctx, teamID)
			if err != nil {
				return err
			}
			perTeam[i] = projects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return respondErr(c, pc.Logger, err)
	}

	merged := make([]models.Project, 0)
	for _, projects := range perTeam {
		merged = append(merged, projects...)
	}
	return c.JSON(merged)
}

func (pc *ProjectController) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)

	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}
	status := req.Status
	if status == "" {
		status = "active"
	}

	ctx := c.UserContext()
	project := models.Project{
		TeamID:      req.TeamID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	}
	err := pc.Store.Transact(ctx, func(tx store.Store) error {
		if _, err := tx.TeamByID(ctx, req.TeamID); err != nil {
			return authz.NotFound("Team", err)
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceProject, authz.ActionCreate, req.TeamID, 0); err != nil {
			return err
		}
		return tx.CreateProject(ctx, &project)
	})
	if err != nil {
		return respondErr(c, pc.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

func (pc *ProjectController) Get(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Project")
	}

	ctx := c.UserContext()
	project, err := pc.Store.ProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Project")
		}
		return respondErr(c, pc.Logger, err)
	}
	teamID, err := authz.ProjectTeam(ctx, pc.Store, id)
	if err != nil {
		return respondErr(c, pc.Logger, err)
	}
	if err := authz.Can(ctx, pc.Store, actor.ID, authz.ResourceProject, authz.ActionRead, teamID, 0); err != nil {
		return respondErr(c, pc.Logger, err)
	}
	return c.JSON(project)
}

// Update edits project metadata; team admins only. TeamID is immutable.
func (pc *ProjectController) Update(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Project")
	}

	var req UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}

	ctx := c.UserContext()
	var project *models.Project
	err := pc.Store.Transact(ctx, func(tx store.Store) error {
		teamID, err := authz.ProjectTeam(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceProject, authz.ActionUpdate, teamID, 0); err != nil {
			return err
		}
		project, err = tx.ProjectByID(ctx, id)
		if err != nil {
			return authz.NotFound("Project", err)
		}
		if req.Name != nil {
			project.Name = *req.Name
		}
		if req.Description != nil {
			project.Description = *req.Description
		}
		if req.Status != nil {
			project.Status = *req.Status
		}
		if req.StartDate != nil {
			project.StartDate = req.StartDate
		}
		if req.DueDate != nil {
			project.DueDate = req.DueDate
		}
		return tx.SaveProject(ctx, project)
	})
	if err != nil {
		return respondErr(c, pc.Logger, err)
	}
	return c.JSON(project)
}

func (pc *ProjectController) Delete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Project")
	}

	ctx := c.UserContext()
	err := pc.Store.Transact(ctx, func(tx store.Store) error {
		teamID, err := authz.ProjectTeam(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceProject, authz.ActionDelete, teamID, 0); err != nil {
			return err
		}
		return tx.DeleteProject(ctx, id)
	})
	if err != nil {
		return respondErr(c, pc.Logger, err)
	}
	return c.JSON(fiber.Map{"message": "Project deleted"})
}
