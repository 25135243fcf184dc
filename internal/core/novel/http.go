// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package novel

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fictora/fictora/internal/core/moderation"
	"github.com/fictora/fictora/internal/platform/middleware"
	requestutil "github.com/fictora/fictora/internal/platform/request"
	"github.com/fictora/fictora/internal/platform/respond"
	"github.com/fictora/fictora/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the novel catalogue.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new novel [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the novel domain's endpoints.
//
// # Routing Strategy
//
//   - Discovery (Public): Visible-status browsing for all visitors.
//   - Authoring (Authenticated): Submission and management by writers.
//   - Moderation (Authenticated): Review queue and decisions; the service
//     re-checks the persisted role, so no role middleware is applied here.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listNovels)

	// ## Authenticated Endpoints
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)

		protected.Post("/", handler.submitNovel)
		protected.Get("/mine", handler.listOwnNovels)
		protected.Get("/queue", handler.listReviewQueue)

		protected.Patch("/{id}", handler.editNovel)
		protected.Post("/{id}/review", handler.reviewNovel)
		protected.Post("/{id}/status", handler.transitionLifecycle)
		protected.Delete("/{id}", handler.deleteNovel)
	})

	// Identifier route registered last so fixed segments win.
	router.Get("/{identifier}", handler.getNovel)

	return router
}

// # Discovery Endpoints

/*
GET /api/v1/novels.

Description: Retrieves a paginated list of publicly visible novels.
Pending and denied submissions are excluded unconditionally.

Request:
  - q: string (Full-text search)
  - genres: []int (Included genre IDs)
  - sort: string (latest, popular, az)
  - dir: string (asc, desc)
  - limit: int
  - page: int

Response:
  - 200: []Novel: Paginated list of novels
*/
func (handler *Handler) listNovels(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Query:    queryParams.Get("q"),
		GenreIDs: parseIntSlice(queryParams["genres"]),
		Sort:     queryParams.Get("sort"),
		SortDir:  queryParams.Get("dir"),
	}

	novels, total, err := handler.service.ListPublic(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, novels, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/novels/{identifier}.

Description: Retrieves a novel by UUID or unique title slug. Pending and
denied works resolve only for their owner or a moderator; other callers
receive 404.

Request:
  - identifier: string (UUID or Slug)

Response:
  - 200: Novel: Success
  - 404: 404: ErrNotFound: Novel not found or hidden
*/
func (handler *Handler) getNovel(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.ID(request, "identifier")
	actorID := actorIDFromRequest(request)

	found, err := handler.service.GetNovel(request.Context(), identifier, actorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// View tracking is best-effort
	_ = handler.service.RecordView(request.Context(), found.ID)

	respond.OK(writer, found)
}

/*
GET /api/v1/novels/mine.

Description: Lists the caller's own novels in every status, pending and
denied included.

Response:
  - 200: []Novel: Paginated list
  - 401: 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) listOwnNovels(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	actorID := actorIDFromRequest(request)

	novels, total, err := handler.service.ListOwn(request.Context(), actorID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, novels, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/novels/queue.

Description: Lists submissions awaiting a moderation decision, oldest first.
Restricted to moderator roles via the persisted role record.

Response:
  - 200: []Novel: Pending submissions
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is not a moderator
*/
func (handler *Handler) listReviewQueue(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	actorID := actorIDFromRequest(request)

	novels, total, err := handler.service.ListReviewQueue(request.Context(), actorID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, novels, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// # Request Payloads

// submitNovelRequest defines the inbound JSON schema for novel submission.
// A status field in the payload is accepted but ignored: submissions always
// enter review as pending.
type submitNovelRequest struct {
	Title    string `json:"title"`
	Synopsis string `json:"synopsis"`
	CoverURL string `json:"cover_url"`
	Status   string `json:"status"` // Ignored
	GenreIDs []int  `json:"genre_ids"`
}

// reviewRequest defines the inbound JSON schema for a moderation decision.
type reviewRequest struct {
	Decision string `json:"decision"` // "ongoing" or "denied"
	Note     string `json:"note"`
}

// transitionRequest defines the inbound JSON schema for a lifecycle change.
type transitionRequest struct {
	Status string `json:"status"` // "ongoing", "completed", or "hiatus"
}

// # Authoring Endpoints

/*
POST /api/v1/novels.

Description: Submits a new novel for moderation review. The created record is
always pending approval; whatever status the payload carried is discarded.

Request (Body):
  - submitNovelRequest: JSON object

Response:
  - 201: Novel: The pending submission
  - 400: 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller cannot author content
*/
func (handler *Handler) submitNovel(writer http.ResponseWriter, request *http.Request) {
	var input submitNovelRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	submission := &Novel{
		Title:    input.Title,
		Synopsis: input.Synopsis,
		CoverURL: input.CoverURL,
		GenreIDs: input.GenreIDs,
	}

	if err := handler.service.Submit(request.Context(), actorIDFromRequest(request), submission); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, submission)
}

/*
PATCH /api/v1/novels/{id}.

Description: Applies partial metadata updates to an existing novel. Allowed
for the owning writer and moderators. The moderation status is never changed
by this endpoint.

Request:
  - id: string (UUID)
  - body: submitNovelRequest (Partial JSON)

Response:
  - 200: Novel: Updated novel
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is neither owner nor moderator
  - 404: 404: ErrNotFound: Novel not found
*/
func (handler *Handler) editNovel(writer http.ResponseWriter, request *http.Request) {
	novelID := requestutil.ID(request, "id")

	var input submitNovelRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	changes := &Novel{
		ID:       novelID,
		Title:    input.Title,
		Synopsis: input.Synopsis,
		CoverURL: input.CoverURL,
		GenreIDs: input.GenreIDs,
	}

	updated, err := handler.service.Edit(request.Context(), actorIDFromRequest(request), changes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// # Moderation Endpoints

/*
POST /api/v1/novels/{id}/review.

Description: Records a moderation decision on a pending submission.

Request:
  - id: string (UUID)
  - body: reviewRequest

Response:
  - 200: Novel: The novel with its post-decision status
  - 400: 400: INVALID_DECISION/INVALID_TRANSITION: Bad decision or non-pending target
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is not a moderator
  - 404: 404: ErrNotFound: Novel deleted before the decision landed
*/
func (handler *Handler) reviewNovel(writer http.ResponseWriter, request *http.Request) {
	novelID := requestutil.ID(request, "id")

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewed, err := handler.service.Review(request.Context(), actorIDFromRequest(request), novelID, moderation.Decision(input.Decision), input.Note)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, reviewed)
}

/*
POST /api/v1/novels/{id}/status.

Description: Moves an approved novel between its publication states
(ongoing, completed, hiatus) per the lifecycle transition table.

Request:
  - id: string (UUID)
  - body: transitionRequest

Response:
  - 200: Novel: The novel in its new state
  - 400: 400: INVALID_TRANSITION: Move not in the lifecycle table
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is neither owner nor moderator
  - 404: 404: ErrNotFound: Novel not found
*/
func (handler *Handler) transitionLifecycle(writer http.ResponseWriter, request *http.Request) {
	novelID := requestutil.ID(request, "id")

	var input transitionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.TransitionLifecycle(request.Context(), actorIDFromRequest(request), novelID, moderation.Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/novels/{id}.

Description: Soft-deletes a novel. Allowed for the owning writer and
moderators.

Request:
  - id: string (UUID)

Response:
  - 204: No Content: Success
  - 401: 401: ErrUnauthorized: Missing or invalid token
  - 403: 403: ErrForbidden: Caller is neither owner nor moderator
  - 404: 404: ErrNotFound: Novel not found
*/
func (handler *Handler) deleteNovel(writer http.ResponseWriter, request *http.Request) {
	novelID := requestutil.ID(request, "id")

	if err := handler.service.DeleteNovel(request.Context(), actorIDFromRequest(request), novelID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Helpers

// actorIDFromRequest extracts the authenticated user's ID, or "" when the
// request is anonymous.
func actorIDFromRequest(request *http.Request) string {
	claims := middleware.GetUser(request.Context())
	if claims == nil {
		return ""
	}
	return claims.UserID
}

/*
parseIntSlice converts a slice of strings to a slice of integers.

Parameters:
  - values: A slice of strings to convert.

Returns:
  - A slice of integers.
*/
func parseIntSlice(values []string) []int {
	var result []int
	for _, value := range values {
		if integer, err := strconv.Atoi(value); err == nil {
			result = append(result, integer)
		}
	}
	return result
}
