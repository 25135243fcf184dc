// Copyright (c) 2026 Fictora. All rights reserved.
// Author: platform@fictora.app

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fictora/fictora/internal/platform/middleware"
	"github.com/fictora/fictora/internal/platform/rbac"
	requestutil "github.com/fictora/fictora/internal/platform/request"
	"github.com/fictora/fictora/internal/platform/respond"
	"github.com/fictora/fictora/internal/platform/validate"
	"github.com/fictora/fictora/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for profiles and account administration.
type Handler struct {
	service *Service
}

// NewHandler constructs a new account [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the self-service profile endpoints.
//
// # Endpoints
//   - GET    /me : Current user's full profile.
//   - PATCH  /me : Partial profile update.
//   - DELETE /me : Soft-delete own account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)
	router.Get("/me", handler.getProfile)
	router.Patch("/me", handler.updateProfile)
	router.Delete("/me", handler.deleteAccount)

	return router
}

// AdminRoutes returns the managed-account endpoints.
//
// The route-level gate admits admins and above cheaply; the service layer
// re-fetches the actor's persisted role before every mutation, so a stale
// or forged claim cannot pass the second gate.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireRole(rbac.RoleAdmin))

	router.Get("/accounts", handler.listAccounts)
	router.Post("/accounts", handler.createAccount)
	router.Patch("/accounts/{id}", handler.updateManagedAccount)
	router.Put("/accounts/{id}/role", handler.assignRole)
	router.Put("/accounts/{id}/ban", handler.banAccount)
	router.Delete("/accounts/{id}/ban", handler.unbanAccount)

	return router
}

// # Request Payloads

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	Website     *string `json:"website"`
}

type createAccountRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

// # Self-Service Handlers

/*
GetProfile returns the caller's own account.

GET /api/v1/users/me
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateProfile applies partial changes to the caller's own account.

PATCH /api/v1/users/me
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.MaxLen(FieldDisplayName, *input.DisplayName, 100)
	}
	if input.Bio != nil {
		validator.MaxLen(FieldBio, *input.Bio, 2000)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		Website:     input.Website,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DeleteAccount soft-deletes the caller's own account.

DELETE /api/v1/users/me
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Administrative Handlers

/*
ListAccounts returns a page of all accounts.

GET /api/v1/admin/accounts
*/
func (handler *Handler) listAccounts(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	accounts, total, err := handler.service.ListAccounts(request.Context(), actorID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
CreateAccount provisions a new account with a pre-assigned role.

POST /api/v1/admin/accounts

Response:
  - 201: ManagedAccount: Provisioned account
  - 403: ErrForbidden: Requested role outside the actor's creation set
*/
func (handler *Handler) createAccount(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createAccountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		Required(FieldRole, input.Role)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateAccount(request.Context(), actorID, CreateAccountInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		Role:        rbac.Role(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
UpdateManagedAccount applies profile changes to a managed account.

PATCH /api/v1/admin/accounts/{id}
*/
func (handler *Handler) updateManagedAccount(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.Param(request, "id")

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	updated, err := handler.service.UpdateManagedAccount(request.Context(), actorID, targetID, UpdateProfileInput{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
		Website:     input.Website,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
AssignRole changes the role of a managed account.

PUT /api/v1/admin/accounts/{id}/role
*/
func (handler *Handler) assignRole(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.Param(request, "id")

	var input assignRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldRole, input.Role)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.AssignRole(request.Context(), actorID, targetID, rbac.Role(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
BanAccount suspends a managed account and revokes its sessions.

PUT /api/v1/admin/accounts/{id}/ban
*/
func (handler *Handler) banAccount(writer http.ResponseWriter, request *http.Request) {
	handler.setBanned(writer, request, true)
}

/*
UnbanAccount lifts a suspension.

DELETE /api/v1/admin/accounts/{id}/ban
*/
func (handler *Handler) unbanAccount(writer http.ResponseWriter, request *http.Request) {
	handler.setBanned(writer, request, false)
}

func (handler *Handler) setBanned(writer http.ResponseWriter, request *http.Request, banned bool) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	targetID := requestutil.Param(request, "id")

	if err := handler.service.SetBanned(request.Context(), actorID, targetID, banned); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
