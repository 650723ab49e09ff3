package service

import (
	"context"
	"fmt"

	"github.com/ebdruplab/semactl/internal/core/domain"
	apperrors "github.com/ebdruplab/semactl/internal/errors"
	"github.com/ebdruplab/semactl/internal/semaphore"
)

// applyUsersAccess grants project membership. Users themselves are server
// global and must already exist; an unknown username is a reference error.
func (r *deployRun) applyUsersAccess(ctx context.Context) error {
	if len(r.manifest.UsersAccess) == 0 {
		return nil
	}

	users, err := r.client.ListUsers(ctx, r.creds)
	if err != nil {
		return err
	}
	byUsername := map[string]semaphore.User{}
	for _, u := range users {
		if _, ok := byUsername[u.Username]; !ok {
			byUsername[u.Username] = u
		}
	}

	members, err := r.client.ListProjectUsers(ctx, r.creds, r.projectID, semaphore.ListOptions{})
	if err != nil {
		return err
	}
	roleByID := map[int]string{}
	for _, m := range members {
		roleByID[m.ID] = m.Role
	}

	for _, spec := range r.manifest.UsersAccess {
		user, ok := byUsername[spec.Username]
		if !ok {
			err := apperrors.NewUserFacing(apperrors.CodeReferenceError,
				fmt.Sprintf("cannot resolve user %q", spec.Username),
				"Create the user on the server before granting project access.")
			r.record(domain.CategoryUsersAccess, spec.Username, domain.ActionFailed, 0, "", err)
			return err
		}

		if role, member := roleByID[user.ID]; member {
			if role == spec.Role {
				r.record(domain.CategoryUsersAccess, spec.Username, domain.ActionSkipped, user.ID, "role "+role, nil)
				continue
			}
			if err := r.client.UpdateProjectUser(ctx, r.creds, r.projectID, user.ID, spec.Role); err != nil {
				r.record(domain.CategoryUsersAccess, spec.Username, domain.ActionFailed, user.ID, "", err)
				return err
			}
			r.record(domain.CategoryUsersAccess, spec.Username, domain.ActionUpdated, user.ID,
				fmt.Sprintf("role %s -> %s", role, spec.Role), nil)
			continue
		}

		req := semaphore.ProjectUserRequest{UserID: user.ID, Role: spec.Role}
		if err := r.client.AddProjectUser(ctx, r.creds, r.projectID, req); err != nil {
			r.record(domain.CategoryUsersAccess, spec.Username, domain.ActionFailed, user.ID, "", err)
			return err
		}
		r.record(domain.CategoryUsersAccess, spec.Username, domain.ActionCreated, user.ID, "role "+spec.Role, nil)
	}
	return nil
}
