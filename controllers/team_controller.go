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

type TeamController struct {
	Store  store.Store
	Logger *logrus.Logger
}

func NewTeamController(st store.Store, logger *logrus.Logger) *TeamController {
	return &TeamController{Store: st, Logger: logger}
}

type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// List returns the teams the actor belongs to.
func (tc *TeamController) List(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	teams, err := tc.Store.TeamsForUser(c.UserContext(), actor.ID)
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}
	return c.JSON(teams)
}

// Create is restricted to global admins. The creator is enrolled as a
// team-level admin in the same transaction as the team row.
func (tc *TeamController) Create(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	if !actor.IsAdmin() {
		return forbidden(c, "Only admins can create teams")
	}

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}

	ctx := c.UserContext()
	team := models.Team{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor.ID,
	}
	err := tc.Store.Transact(ctx, func(tx store.Store) error {
		if err := tx.CreateTeam(ctx, &team); err != nil {
			return err
		}
		return tx.AddMember(ctx, &models.TeamMember{
			TeamID: team.ID,
			UserID: actor.ID,
			Role:   string(authz.RoleAdmin),
		})
	})
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}

	tc.Logger.WithFields(logrus.Fields{
		"team_id": team.ID,
		"user_id": actor.ID,
	}).Info("team created")

	return c.Status(fiber.StatusCreated).JSON(team)
}

func (tc *TeamController) Get(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Team")
	}

	ctx := c.UserContext()
	team, err := tc.Store.TeamByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Team")
		}
		return respondErr(c, tc.Logger, err)
	}
	if err := authz.Can(ctx, tc.Store, actor.ID, authz.ResourceTeam, authz.ActionRead, id, 0); err != nil {
		return respondErr(c, tc.Logger, err)
	}
	return c.JSON(team)
}

func (tc *TeamController) Update(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Team")
	}

	var req UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}

	ctx := c.UserContext()
	var team *models.Team
	err := tc.Store.Transact(ctx, func(tx store.Store) error {
		var err error
		team, err = tx.TeamByID(ctx, id)
		if err != nil {
			return authz.NotFound("Team", err)
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceTeam, authz.ActionUpdate, id, 0); err != nil {
			return err
		}
		if req.Name != nil {
			team.Name = *req.Name
		}
		if req.Description != nil {
			team.Description = *req.Description
		}
		return tx.SaveTeam(ctx, team)
	})
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}
	return c.JSON(team)
}

func (tc *TeamController) Delete(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	id, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Team")
	}

	ctx := c.UserContext()
	err := tc.Store.Transact(ctx, func(tx store.Store) error {
		if _, err := tx.TeamByID(ctx, id); err != nil {
			return authz.NotFound("Team", err)
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceTeam, authz.ActionDelete, id, 0); err != nil {
			return err
		}
		return tx.DeleteTeam(ctx, id)
	})
	if err != nil {
		return respondErr(c, tc.Logger, err)
	}
	return c.JSON(fiber.Map{"message": "Team deleted"})
}
