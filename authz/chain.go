package authz

import (
	"context"
	"errors"
	"fmt"

	"teamhub/store"
)

// NotFoundError reports the first missing link while walking a resource
// chain outward from the leaf. Existence is checked before authority, so a
// broken chain is a 404 for the missing link's type, never a 403.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// NotFound wraps a store lookup result, naming the entity when the row is
// absent.
func NotFound(entity string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &NotFoundError{Entity: entity}
	}
	return err
}

// ProjectTeam resolves Project -> Team.
func ProjectTeam(ctx context.Context, st store.Store, projectID uint) (uint, error) {
	project, err := st.ProjectByID(ctx, projectID)
	if err != nil {
		return 0, NotFound("Project", err)
	}
	if _, err := st.TeamByID(ctx, project.TeamID); err != nil {
		return 0, NotFound("Team", err)
	}
	return project.TeamID, nil
}

// TaskTeam resolves Task -> Project -> Team.
func TaskTeam(ctx context.Context, st store.Store, taskID uint) (uint, error) {
	task, err := st.TaskByID(ctx, taskID)
	if err != nil {
		return 0, NotFound("Task", err)
	}
	return ProjectTeam(ctx, st, task.ProjectID)
}

// CommentTeam resolves Comment -> Task -> Project -> Team.
func CommentTeam(ctx context.Context, st store.Store, commentID uint) (uint, error) {
	comment, err := st.CommentByID(ctx, commentID)
	if err != nil {
		return 0, NotFound("Comment", err)
	}
	return TaskTeam(ctx, st, comment.TaskID)
}

// FileTeam resolves File -> Project -> Team.
func FileTeam(ctx context.Context, st store.Store, fileID uint) (uint, error) {
	file, err := st.FileByID(ctx, fileID)
	if err != nil {
		return 0, NotFound("File", err)
	}
	return ProjectTeam(ctx, st, file.ProjectID)
}

// MessageTeam resolves Message -> Team.
func MessageTeam(ctx context.Context, st store.Store, messageID uint) (uint, error) {
	message, err := st.MessageByID(ctx, messageID)
	if err != nil {
		return 0, NotFound("Message", err)
	}
	if _, err := st.TeamByID(ctx, message.TeamID); err != nil {
		return 0, NotFound("Team", err)
	}
	return message.TeamID, nil
}
