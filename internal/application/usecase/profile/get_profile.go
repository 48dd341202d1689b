package profile

import (
	"context"

	"github.com/khoahotran/volc-friends/internal/domain/user"
)

type GetProfileUseCase struct {
	userRepo user.Repository
}

func NewGetProfileUseCase(repo user.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{userRepo: repo}
}

type GetProfileOutput struct {
	User *user.User
}

// Execute returns the owner's own record with every field, private ones included.
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID int64) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "GetProfile")
	defer span.End()

	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &GetProfileOutput{User: u}, nil
}
