// Package provision implements the user provisioning and deprovisioning
// flows: resolve organizations to product scopes, then issue the ordered
// remote call sequence. Flows are stateless; every request resolves fresh.
package provision

import (
	"context"

	"orgsync.dev/internal/audit"
	"orgsync.dev/internal/directory"
	"orgsync.dev/internal/resolver"
)

// Request is a validated create-and-assign instruction. Field order is the
// validation order of the contract: username, role, email, organizations.
type Request struct {
	Username string   `validate:"required"`
	Role     string   `validate:"required,prodrole"`
	Email    string   `validate:"required,email"`
	Orgs     []string `validate:"required,min=1"`
}

// DeleteRequest removes a user from the listed organizations, or from the
// whole account when Orgs is nil. A nil list is distinct from an empty one.
type DeleteRequest struct {
	Email string `validate:"required,email"`
	Orgs  []string
}

// Result acknowledges a provisioning run: the product names that received
// assignments and the organization names that did not resolve.
type Result struct {
	Products   []string
	Unresolved []string
}

// DeleteResult acknowledges a deprovisioning run.
type DeleteResult struct {
	// Organizations counts the distinct organizations deleted from.
	// Zero with AllOrgs set means one account-wide delete was issued.
	Organizations int
	AllOrgs       bool
	Unresolved    []string
}

// Service drives both flows against the remote directory.
type Service struct {
	dir          directory.Service
	resolver     *resolver.Resolver
	inviterEmail string
}

func New(dir directory.Service, res *resolver.Resolver, inviterEmail string) *Service {
	return &Service{dir: dir, resolver: res, inviterEmail: inviterEmail}
}

// CreateAndAssign creates the user across every resolved organization and
// binds them, via a product-qualified group, into each product scope.
//
// Create-user is issued at most once per distinct org token; the group
// sequence (create, bind to scope, add user) runs once per resolved
// product. Calls are sequential and are not rolled back on failure.
func (s *Service) CreateAndAssign(ctx context.Context, req Request) (Result, error) {
	if err := checkStruct(req); err != nil {
		return Result{}, err
	}
	role := directory.Role(req.Role)

	res, err := s.resolver.Resolve(ctx, req.Orgs)
	if err != nil {
		return Result{}, err
	}

	result := Result{Unresolved: res.Unresolved}
	seenOrgs := make(map[string]struct{}, len(res.Products))
	for _, product := range res.Products {
		if _, ok := seenOrgs[product.OrgToken]; !ok {
			seenOrgs[product.OrgToken] = struct{}{}
			if err := s.dir.CreateUser(ctx, product.OrgToken, req.Username, req.Email, s.inviterEmail); err != nil {
				return result, err
			}
		}

		groupName := product.Name + " " + req.Role
		if err := s.dir.CreateGroup(ctx, product.OrgToken, groupName); err != nil {
			return result, err
		}
		if err := s.dir.AssignGroupToScope(ctx, product.OrgToken, role, groupName, product.Token); err != nil {
			return result, err
		}
		if err := s.dir.AssignUserToGroup(ctx, product.OrgToken, req.Email, groupName); err != nil {
			return result, err
		}
		result.Products = append(result.Products, product.Name)
	}

	_ = audit.LogEvent(ctx, "user.provision", map[string]any{
		"email":      req.Email,
		"role":       req.Role,
		"products":   result.Products,
		"unresolved": result.Unresolved,
		"orgs_setup": len(seenOrgs),
	})
	return result, nil
}

// Delete removes the user from each distinct resolved organization, or
// from the whole account when no organization list was supplied. Deleting
// from an organization the user does not belong to is a no-op downstream.
func (s *Service) Delete(ctx context.Context, req DeleteRequest) (DeleteResult, error) {
	if err := checkStruct(req); err != nil {
		return DeleteResult{}, err
	}

	if req.Orgs == nil {
		if err := s.dir.DeleteUser(ctx, req.Email, ""); err != nil {
			return DeleteResult{}, err
		}
		_ = audit.LogEvent(ctx, "user.deprovision", map[string]any{
			"email": req.Email,
			"scope": "account",
		})
		return DeleteResult{AllOrgs: true}, nil
	}

	res, err := s.resolver.Resolve(ctx, req.Orgs)
	if err != nil {
		return DeleteResult{}, err
	}

	result := DeleteResult{Unresolved: res.Unresolved}
	seenOrgs := make(map[string]struct{}, len(res.Products))
	for _, product := range res.Products {
		if _, ok := seenOrgs[product.OrgToken]; ok {
			continue
		}
		seenOrgs[product.OrgToken] = struct{}{}
		if err := s.dir.DeleteUser(ctx, req.Email, product.OrgToken); err != nil {
			return result, err
		}
		result.Organizations++
	}

	_ = audit.LogEvent(ctx, "user.deprovision", map[string]any{
		"email":         req.Email,
		"scope":         "organizations",
		"organizations": result.Organizations,
		"unresolved":    result.Unresolved,
	})
	return result, nil
}
