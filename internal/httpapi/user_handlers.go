package httpapi

import (
	"context"
	"errors"
	"net/http"

	"orgsync.dev/internal/directory"
	"orgsync.dev/internal/provision"
)

type createUserRequest struct {
	FullName   string   `json:"fullName"`
	UserEmail  string   `json:"userEmail"`
	WsRole     string   `json:"wsRole"`
	GhOrgNames []string `json:"ghOrgNames"`
}

type createUserResponse struct {
	Message    string   `json:"message"`
	User       string   `json:"user"`
	Products   []string `json:"products"`
	Unresolved []string `json:"unresolved,omitempty"`
}

type deleteUserRequest struct {
	Email string `json:"email"`
	// nil when the field is omitted, which means the whole account.
	GhOrgNames []string `json:"ghOrgNames"`
}

type deleteUserResponse struct {
	Message       string   `json:"message"`
	User          string   `json:"user"`
	Organizations int      `json:"organizations,omitempty"`
	AllOrgs       bool     `json:"all_organizations,omitempty"`
	Unresolved    []string `json:"unresolved,omitempty"`
}

func (a *API) handleCreateAndAssignUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}

	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
	defer cancel()

	result, err := a.provisioner.CreateAndAssign(ctx, provision.Request{
		Username: req.FullName,
		Role:     req.WsRole,
		Email:    req.UserEmail,
		Orgs:     req.GhOrgNames,
	})
	if err != nil {
		a.flowError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, createUserResponse{
		Message:    "successfully set product assignments",
		User:       req.UserEmail,
		Products:   result.Products,
		Unresolved: result.Unresolved,
	})
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}

	var req deleteUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
	defer cancel()

	result, err := a.provisioner.Delete(ctx, provision.DeleteRequest{
		Email: req.Email,
		Orgs:  req.GhOrgNames,
	})
	if err != nil {
		a.flowError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteUserResponse{
		Message:       "successfully deleted user",
		User:          req.Email,
		Organizations: result.Organizations,
		AllOrgs:       result.AllOrgs,
		Unresolved:    result.Unresolved,
	})
}

// flowError maps flow failures onto the HTTP taxonomy: validation → 400,
// request timeout → 504, remote call failure → 502 naming the operation.
func (a *API) flowError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *provision.ValidationError
	var callErr *directory.CallError
	switch {
	case errors.As(err, &verr):
		writeErrorFields(w, r, http.StatusBadRequest, verr.Error(), map[string]any{
			"kind":  "validation",
			"field": verr.Field,
		})
	case errors.Is(err, context.DeadlineExceeded):
		writeErrorFields(w, r, http.StatusGatewayTimeout, "remote call sequence timed out", map[string]any{
			"kind": "timeout",
		})
	case errors.As(err, &callErr):
		writeErrorFields(w, r, http.StatusBadGateway, "remote directory call failed", map[string]any{
			"kind":      "remote",
			"operation": callErr.Op,
		})
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
