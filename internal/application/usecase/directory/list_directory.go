package directory

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/volc-friends/internal/domain/user"
)

var tracer = otel.Tracer("directory_usecase")

type ListDirectoryUseCase struct {
	userRepo user.Repository
}

func NewListDirectoryUseCase(repo user.Repository) *ListDirectoryUseCase {
	return &ListDirectoryUseCase{userRepo: repo}
}

type ListDirectoryOutput struct {
	Users    []user.PublicProfile
	Page     int
	PageSize int
}

// Execute lists public records matching filter, each projected through the
// privacy rules.
func (uc *ListDirectoryUseCase) Execute(ctx context.Context, filter user.DirectoryFilter) (*ListDirectoryOutput, error) {
	filter = filter.Normalize()

	ctx, span := tracer.Start(ctx, "ListDirectory")
	defer span.End()
	span.SetAttributes(attribute.Int("page", filter.Page), attribute.Int("page_size", filter.PageSize))

	records, err := uc.userRepo.ListDirectory(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	profiles := make([]user.PublicProfile, len(records))
	for i, u := range records {
		profiles[i] = user.ToPublicProfile(u)
	}
	return &ListDirectoryOutput{Users: profiles, Page: filter.Page, PageSize: filter.PageSize}, nil
}
