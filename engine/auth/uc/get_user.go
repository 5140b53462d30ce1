package uc

import (
	"context"
	"errors"
	"fmt"

	"github.com/equipsight/equipsight/engine/auth/model"
	"github.com/equipsight/equipsight/engine/core"
)

// GetUserInput identifies the user to load.
type GetUserInput struct {
	UserID core.ID
}

// GetUser use case: loads a user by ID, used by the auth middleware and the
// profile endpoint.
type GetUser struct {
	factory *Factory
	input   *GetUserInput
}

func (uc *GetUser) Execute(ctx context.Context) (*model.User, error) {
	user, err := uc.factory.repo.GetUserByID(ctx, uc.input.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}
