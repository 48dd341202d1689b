package profile

import (
	"context"
	"strings"

	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
)

type CheckUsernameUseCase struct {
	userRepo user.Repository
}

func NewCheckUsernameUseCase(repo user.Repository) *CheckUsernameUseCase {
	return &CheckUsernameUseCase{userRepo: repo}
}

type CheckUsernameOutput struct {
	Exists bool
}

func (uc *CheckUsernameUseCase) Execute(ctx context.Context, username string) (*CheckUsernameOutput, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.NewValidation([]apperror.FieldViolation{{
			Field: "username", Rule: "required", Message: "is required",
		}})
	}

	exists, err := uc.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &CheckUsernameOutput{Exists: exists}, nil
}
