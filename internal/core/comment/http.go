// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fictora/fictora/internal/platform/middleware"
	requestutil "github.com/fictora/fictora/internal/platform/request"
	"github.com/fictora/fictora/internal/platform/respond"
	"github.com/fictora/fictora/pkg/pagination"
)

// Handler implements the HTTP layer for episode comments.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// EpisodeRoutes returns the comment endpoints nested under an episode
// (/episodes/{id}/comments).
func (handler *Handler) EpisodeRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listComments)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.postComment)
	})

	return router
}

// Routes returns the flat comment endpoints (/comments/{commentID}).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Delete("/{commentID}", handler.deleteComment)
	})

	return router
}

/*
GET /api/v1/episodes/{id}/comments.

Response:
  - 200: []Comment: Paginated list, newest first
  - 404: 404: ErrNotFound: Episode missing or unpublished
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	episodeID := requestutil.ID(request, "episodeID")

	comments, total, err := handler.service.ListByEpisode(request.Context(), episodeID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// postCommentRequest defines the inbound JSON schema for a new comment.
type postCommentRequest struct {
	Body     string  `json:"body"`
	ParentID *string `json:"parent_id"`
}

/*
POST /api/v1/episodes/{id}/comments.

Response:
  - 201: Comment: The posted comment
  - 400: 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 404: 404: ErrNotFound: Episode missing or unpublished
*/
func (handler *Handler) postComment(writer http.ResponseWriter, request *http.Request) {
	episodeID := requestutil.ID(request, "episodeID")

	var input postCommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	posted := &Comment{
		EpisodeID: episodeID,
		Body:      input.Body,
		ParentID:  input.ParentID,
	}

	claims := middleware.GetUser(request.Context())
	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}

	if err := handler.service.Post(request.Context(), actorID, posted); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, posted)
}

/*
DELETE /api/v1/comments/{commentID}.

Response:
  - 204: No Content: Success
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is neither author nor moderator
  - 404: 404: ErrNotFound: Comment not found
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	commentID := requestutil.ID(request, "commentID")

	claims := middleware.GetUser(request.Context())
	actorID := ""
	if claims != nil {
		actorID = claims.UserID
	}

	if err := handler.service.Delete(request.Context(), actorID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
