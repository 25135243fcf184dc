package genre

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fictora/fictora/internal/platform/middleware"
	"github.com/fictora/fictora/internal/platform/rbac"
	requestutil "github.com/fictora/fictora/internal/platform/request"
	"github.com/fictora/fictora/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listGenres)
	router.Get("/{id}", handler.getGenre)
	router.Get("/by-slug/{slug}", handler.getGenreBySlug)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(rbac.RoleAdmin))

		admin.Post("/", handler.createGenre)
		admin.Delete("/{id}", handler.deleteGenre)
	})
}

func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.service.ListGenres(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genres)
}

func (handler *Handler) getGenre(writer http.ResponseWriter, request *http.Request) {
	idStr := requestutil.ID(request, "id")
	genreID, err := strconv.Atoi(idStr)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.GetGenre(request.Context(), genreID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) getGenreBySlug(writer http.ResponseWriter, request *http.Request) {
	slug := chi.URLParam(request, "slug")

	found, err := handler.service.GetGenreBySlug(request.Context(), slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

type createGenreRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

func (handler *Handler) createGenre(writer http.ResponseWriter, request *http.Request) {
	var input createGenreRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created := &Genre{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
	}

	if err := handler.service.CreateGenre(request.Context(), created); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) deleteGenre(writer http.ResponseWriter, request *http.Request) {
	idStr := requestutil.ID(request, "id")
	genreID, err := strconv.Atoi(idStr)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteGenre(request.Context(), genreID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
