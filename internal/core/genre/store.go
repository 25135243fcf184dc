package genre

import "context"

type Repository interface {
	ListGenres(context context.Context) ([]*Genre, error)
	GetGenreByID(context context.Context, id int) (*Genre, error)
	GetGenreBySlug(context context.Context, slug string) (*Genre, error)
	Create(context context.Context, genre *Genre) error
	Delete(context context.Context, id int) error
}
