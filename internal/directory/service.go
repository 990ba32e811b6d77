package directory

import "context"

// Service is the operation set the provisioning flows depend on. The
// production implementation lives in directory/remote; tests substitute a
// recording fake.
//
// CreateGroup must be a no-op when the group already exists, and DeleteUser
// must be a no-op when the user is not a member of the organization.
type Service interface {
	// ListProducts returns every product scope visible to the
	// administrative credential, across all organizations of the account.
	ListProducts(ctx context.Context) ([]Product, error)

	// CreateUser creates the user inside the organization identified by
	// orgToken, inviting them on behalf of inviterEmail.
	CreateUser(ctx context.Context, orgToken, username, email, inviterEmail string) error

	// CreateGroup ensures the named group exists inside the organization.
	CreateGroup(ctx context.Context, orgToken, name string) error

	// AssignUserToGroup adds the user (by email) to the named group.
	AssignUserToGroup(ctx context.Context, orgToken, email, groupName string) error

	// AssignGroupToScope binds the group into the scope identified by
	// scopeToken with the given role type.
	AssignGroupToScope(ctx context.Context, orgToken string, role Role, groupName, scopeToken string) error

	// DeleteUser removes the user from the organization identified by
	// orgToken. An empty orgToken removes the user from the whole account.
	DeleteUser(ctx context.Context, email, orgToken string) error
}
