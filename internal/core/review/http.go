// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fictora/fictora/internal/platform/middleware"
	requestutil "github.com/fictora/fictora/internal/platform/request"
	"github.com/fictora/fictora/internal/platform/respond"
	"github.com/fictora/fictora/pkg/pagination"
)

// Handler implements the HTTP layer for novel reviews.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// NovelRoutes returns the review endpoints nested under a novel
// (/novels/{novelID}/reviews).
func (handler *Handler) NovelRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Put("/", handler.rateNovel)
	})

	return router
}

// Routes returns the flat review endpoints (/reviews/{reviewID}).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Delete("/{reviewID}", handler.deleteReview)
	})

	return router
}

/*
GET /api/v1/novels/{novelID}/reviews.

Response:
  - 200: []Review: Paginated list, newest first
  - 404: 404: ErrNotFound: Novel missing or hidden
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	novelID := requestutil.ID(request, "novelID")

	reviews, total, err := handler.service.ListByNovel(request.Context(), novelID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// rateRequest defines the inbound JSON schema for rating a novel.
type rateRequest struct {
	Score int    `json:"score"`
	Body  string `json:"body"`
}

/*
PUT /api/v1/novels/{novelID}/reviews.

Description: Submits or replaces the caller's review of the novel. PUT
semantics: one review per user and novel.

Response:
  - 200: Review: The stored review
  - 400: 400: ErrInvalidJSON/Validation: Score outside 1-10
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 404: 404: ErrNotFound: Novel missing or hidden
*/
func (handler *Handler) rateNovel(writer http.ResponseWriter, request *http.Request) {
	novelID := requestutil.ID(request, "novelID")

	var input rateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rated := &Review{
		NovelID: novelID,
		Score:   input.Score,
		Body:    input.Body,
	}

	claims := middleware.GetUser(request.Context())
	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}

	if err := handler.service.Rate(request.Context(), actorID, rated); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rated)
}

/*
DELETE /api/v1/reviews/{reviewID}.

Response:
  - 204: No Content: Success
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is neither author nor moderator
  - 404: 404: ErrNotFound: Review not found
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	reviewID := requestutil.ID(request, "reviewID")

	claims := middleware.GetUser(request.Context())
	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}

	if err := handler.service.Delete(request.Context(), actorID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
