package genre

import (
	"context"
	"log/slog"

	"github.com/fictora/fictora/internal/platform/validate"
	"github.com/fictora/fictora/pkg/slug"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListGenres(context context.Context) ([]*Genre, error) {
	return service.repo.ListGenres(context)
}

func (service *Service) GetGenre(context context.Context, id int) (*Genre, error) {
	return service.repo.GetGenreByID(context, id)
}

func (service *Service) GetGenreBySlug(context context.Context, slug string) (*Genre, error) {
	return service.repo.GetGenreBySlug(context, slug)
}

func (service *Service) CreateGenre(context context.Context, genre *Genre) error {
	validator := &validate.Validator{}
	validator.Required("name", genre.Name).MaxLen("name", genre.Name, 100)
	if err := validator.Err(); err != nil {
		return err
	}

	if genre.Slug == "" {
		genre.Slug = slug.From(genre.Name)
	}

	if err := service.repo.Create(context, genre); err != nil {
		return err
	}

	service.logger.Info("genre_created", slog.String("name", genre.Name))
	return nil
}

func (service *Service) DeleteGenre(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("genre_deleted", slog.Int("genre_id", id))
	return nil
}
