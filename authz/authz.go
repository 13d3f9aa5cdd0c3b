// Package authz is the authorization core: one reusable decision procedure
// evaluated per request against the current persisted membership state of the
// resource's owning team. Handlers never re-derive policy ad hoc; the
// per-resource rules live in a single table here.
package authz

import (
	"context"
	"errors"

	"teamhub/models"
	"teamhub/store"
)

// Team-scoped roles, independent of a user's global role.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

var (
	// ErrNotMember denies an actor with no membership in the team.
	ErrNotMember = errors.New("not a member of this team")
	// ErrNotAdmin denies a member lacking the team admin role.
	ErrNotAdmin = errors.New("requires team admin role")
)

// IsDenial reports whether err is an authorization denial (403) rather
// than a lookup or store failure.
func IsDenial(err error) bool {
	return errors.Is(err, ErrNotMember) || errors.Is(err, ErrNotAdmin)
}

// Authorize resolves the team's membership list and decides whether actor
// may act at the required role level. The lookup always hits the store:
// no cached or client-supplied role is trusted.
func Authorize(ctx context.Context, st store.Store, actorID, teamID uint, required Role) error {
	members, err := st.Members(ctx, teamID)
	if err != nil {
		return err
	}
	var entry *models.TeamMember
	for i := range members {
		if members[i].UserID == actorID {
			entry = &members[i]
			break
		}
	}
	if entry == nil {
		return ErrNotMember
	}
	if required == RoleAdmin && entry.Role != string(RoleAdmin) {
		return ErrNotAdmin
	}
	return nil
}

// Action names the operation being authorized.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource names a team-scoped resource type.
type Resource string

const (
	ResourceTeam    Resource = "team"
	ResourceMember  Resource = "member"
	ResourceProject Resource = "project"
	ResourceTask    Resource = "task"
	ResourceComment Resource = "comment"
	ResourceFile    Resource = "file"
	ResourceMessage Resource = "message"
)

// rule is the required team role for one resource/action pair. When owner
// is set, the resource owner (comment author, file uploader, message
// author, or the member removing themselves) may act regardless of role.
type rule struct {
	role  Role
	owner bool
}

// policy is the single source of truth for team-scoped access. Team
// creation and all user-entity operations are governed by the global role
// and handled in the controllers, since no team scope exists for them.
var policy = map[Resource]map[Action]rule{
	ResourceTeam: {
		ActionRead:   {role: RoleMember},
		ActionUpdate: {role: RoleAdmin},
		ActionDelete: {role: RoleAdmin},
	},
	ResourceMember: {
		ActionRead:   {role: RoleMember},
		ActionCreate: {role: RoleAdmin},
		ActionDelete: {role: RoleAdmin, owner: true},
	},
	ResourceProject: {
		ActionRead:   {role: RoleMember},
		ActionCreate: {role: RoleMember},
		ActionUpdate: {role: RoleAdmin},
		ActionDelete: {role: RoleAdmin},
	},
	ResourceTask: {
		ActionRead:   {role: RoleMember},
		ActionCreate: {role: RoleMember},
		ActionUpdate: {role: RoleMember},
		ActionDelete: {role: RoleMember},
	},
	ResourceComment: {
		ActionRead:   {role: RoleMember},
		ActionCreate: {role: RoleMember},
		ActionDelete: {role: RoleAdmin, owner: true},
	},
	ResourceFile: {
		ActionRead:   {role: RoleMember},
		ActionCreate: {role: RoleMember},
		ActionDelete: {role: RoleAdmin, owner: true},
	},
	ResourceMessage: {
		ActionRead:   {role: RoleMember},
		ActionCreate: {role: RoleMember},
		ActionDelete: {role: RoleAdmin, owner: true},
	},
}

// Can applies the policy table for actor performing action on a resource
// owned by teamID. ownerID identifies the resource owner for rules with an
// owner override; pass 0 when the resource has no owner.
func Can(ctx context.Context, st store.Store, actorID uint, res Resource, act Action, teamID, ownerID uint) error {
	r, ok := policy[res][act]
	if !ok {
		return ErrNotAdmin
	}
	if r.owner && ownerID != 0 && actorID == ownerID {
		return nil
	}
	return Authorize(ctx, st, actorID, teamID, r.role)
}
