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

type MemberController struct {
	Store  store.Store
	Logger *logrus.Logger
}

func NewMemberController(st store.Store, logger *logrus.Logger) *MemberController {
	return &MemberController{Store: st, Logger: logger}
}

type AddMemberRequest struct {
	UserID uint   `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=admin member"`
}

// List returns the team's membership, visible to any team member.
func (mc *MemberController) List(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	teamID, ok := parseID(c.Params("id"))
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
	if err := authz.Can(ctx, mc.Store, actor.ID, authz.ResourceMember, authz.ActionRead, teamID, 0); err != nil {
		return respondErr(c, mc.Logger, err)
	}

	members, err := mc.Store.Members(ctx, teamID)
	if err != nil {
		return respondErr(c, mc.Logger, err)
	}
	return c.JSON(members)
}

// Add invites a user into the team; team admins only.
func (mc *MemberController) Add(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	teamID, ok := parseID(c.Params("id"))
	if !ok {
		return notFound(c, "Team")
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if fields := utils.ValidateStruct(req); fields != nil {
		return validationFailed(c, fields)
	}
	role := req.Role
	if role == "" {
		role = string(authz.RoleMember)
	}

	ctx := c.UserContext()
	member := models.TeamMember{TeamID: teamID, UserID: req.UserID, Role: role}
	err := mc.Store.Transact(ctx, func(tx store.Store) error {
		if _, err := tx.TeamByID(ctx, teamID); err != nil {
			return authz.NotFound("Team", err)
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceMember, authz.ActionCreate, teamID, 0); err != nil {
			return err
		}
		if _, err := tx.UserByID(ctx, req.UserID); err != nil {
			return authz.NotFound("User", err)
		}
		if _, err := tx.Member(ctx, teamID, req.UserID); err == nil {
			return errAlreadyMember
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.AddMember(ctx, &member)
	})
	if errors.Is(err, errAlreadyMember) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User is already a member of this team",
		})
	}
	if err != nil {
		return respondErr(c, mc.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(member)
}

var errAlreadyMember = errors.New("already a member")

// Current returns the actor's own membership record in the team.
func (mc *MemberController) Current(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	teamID, ok := parseID(c.Params("id"))
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
	member, err := mc.Store.Member(ctx, teamID, actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Membership")
		}
		return respondErr(c, mc.Logger, err)
	}
	return c.JSON(member)
}

// Remove deletes a membership: team admins may remove anyone, a member may
// remove themselves.
func (mc *MemberController) Remove(c *fiber.Ctx) error {
	actor := middleware.CurrentUser(c)
	teamID, ok := parseID(c.Params("teamId"))
	if !ok {
		return notFound(c, "Team")
	}
	userID, ok := parseID(c.Params("userId"))
	if !ok {
		return notFound(c, "Member")
	}

	ctx := c.UserContext()
	err := mc.Store.Transact(ctx, func(tx store.Store) error {
		if _, err := tx.TeamByID(ctx, teamID); err != nil {
			return authz.NotFound("Team", err)
		}
		if _, err := tx.Member(ctx, teamID, userID); err != nil {
			return authz.NotFound("Member", err)
		}
		if err := authz.Can(ctx, tx, actor.ID, authz.ResourceMember, authz.ActionDelete, teamID, userID); err != nil {
			return err
		}
		return tx.RemoveMember(ctx, teamID, userID)
	})
	if err != nil {
		return respondErr(c, mc.Logger, err)
	}
	return c.JSON(fiber.Map{"message": "Member removed"})
}
