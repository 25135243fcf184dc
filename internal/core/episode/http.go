// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package episode

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/platform/middleware"
	requestutil "github.com/fictora/fictora/internal/platform/request"
	"github.com/fictora/fictora/internal/platform/respond"
	"github.com/fictora/fictora/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for novel episodes.
type Handler struct {
	service *Service
}

// NewHandler constructs a new episode [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// NovelRoutes returns the episode endpoints nested under a novel
// (/novels/{novelID}/episodes).
func (handler *Handler) NovelRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listEpisodes)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.submitEpisode)
	})

	return router
}

// Routes returns the flat episode endpoints (/episodes/{id}).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{id}", handler.getEpisode)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Patch("/{id}", handler.editEpisode)
		protected.Post("/{id}/review", handler.reviewEpisode)
		protected.Delete("/{id}", handler.deleteEpisode)
	})

	return router
}

// # Endpoints

/*
GET /api/v1/novels/{novelID}/episodes.

Description: Lists a novel's episodes ordered by number. Unpublished episodes
appear only for the novel's owner and moderators.

Response:
  - 200: []Episode: Paginated list
  - 404: 404: ErrNotFound: Parent novel not found
*/
func (handler *Handler) listEpisodes(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	novelID := requestutil.ID(request, "novelID")

	episodes, total, err := handler.service.ListByNovel(request.Context(), novelID, actorIDFromRequest(request), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, episodes, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/episodes/{id}.

Response:
  - 200: Episode: Success
  - 404: 404: ErrNotFound: Episode missing or hidden from the caller
*/
func (handler *Handler) getEpisode(writer http.ResponseWriter, request *http.Request) {
	episodeID := requestutil.ID(request, "id")

	found, err := handler.service.GetEpisode(request.Context(), episodeID, actorIDFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

// episodeRequest defines the inbound JSON schema for episode submission and
// edits. Any status field in the payload is ignored.
type episodeRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// reviewRequest defines the inbound JSON schema for a moderation decision.
type reviewRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

/*
POST /api/v1/novels/{novelID}/episodes.

Description: Submits a new episode for moderation review. Only the novel's
owning writer may submit; the created record is always pending approval.

Response:
  - 201: Episode: The pending submission
  - 400: 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Not the owning writer
  - 404: 404: ErrNotFound: Parent novel not found
*/
func (handler *Handler) submitEpisode(writer http.ResponseWriter, request *http.Request) {
	novelID := requestutil.ID(request, "novelID")

	var input episodeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	submission := &Episode{
		NovelID: novelID,
		Number:  input.Number,
		Title:   input.Title,
		Body:    input.Body,
	}

	if err := handler.service.Submit(request.Context(), actorIDFromRequest(request), submission); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, submission)
}

/*
PATCH /api/v1/episodes/{id}.

Description: Updates an episode's number, title, or body. Owner or moderator
only; the moderation status is never changed here.

Response:
  - 200: Episode: Updated episode
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is neither owner nor moderator
  - 404: 404: ErrNotFound: Episode not found
*/
func (handler *Handler) editEpisode(writer http.ResponseWriter, request *http.Request) {
	episodeID := requestutil.ID(request, "id")

	var input episodeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Edit(request.Context(), actorIDFromRequest(request), &Episode{
		ID:     episodeID,
		Number: input.Number,
		Title:  input.Title,
		Body:   input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
POST /api/v1/episodes/{id}/review.

Description: Records a moderation decision on a pending episode. Approval
publishes it immediately.

Response:
  - 200: Episode: The episode with its post-decision status
  - 400: 400: INVALID_DECISION/INVALID_TRANSITION: Bad decision or non-pending target
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is not a moderator
  - 404: 404: ErrNotFound: Episode deleted before the decision landed
*/
func (handler *Handler) reviewEpisode(writer http.ResponseWriter, request *http.Request) {
	episodeID := requestutil.ID(request, "id")

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewed, err := handler.service.Review(request.Context(), actorIDFromRequest(request), episodeID, moderation.Decision(input.Decision), input.Note)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, reviewed)
}

/*
DELETE /api/v1/episodes/{id}.

Response:
  - 204: No Content: Success
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is neither owner nor moderator
  - 404: 404: ErrNotFound: Episode not found
*/
func (handler *Handler) deleteEpisode(writer http.ResponseWriter, request *http.Request) {
	episodeID := requestutil.ID(request, "id")

	if err := handler.service.DeleteEpisode(request.Context(), actorIDFromRequest(request), episodeID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// actorIDFromRequest extracts the authenticated user's ID, or "" when the
// request is anonymous.
func actorIDFromRequest(request *http.Request) string {
	claims := middleware.GetUser(request.Context())
	if claims == nil {
		return ""
	}
	return claims.UserID
}
