// Package directory defines the contract against the SCA platform's
// account-management API: products (provisioning scopes), product-level
// roles and the operations the provisioning flows are built on.
package directory

import "fmt"

// Product is a named scope record in the remote registry. Token identifies
// the product scope itself; OrgToken identifies the parent organization and
// is shared across products of the same organization. Records are fetched
// fresh on every resolution call and never outlive the request.
type Product struct {
	Name     string `json:"name"`
	Token    string `json:"token"`
	OrgToken string `json:"org_token"`
}

// Role is a product-level role type accepted by the remote directory.
type Role string

const (
	RoleProductAdmins      Role = "productAdmins"
	RoleProductMembers     Role = "productMembership"
	RoleAlertReceivers     Role = "alertsEmailReceivers"
	RoleProductIntegrators Role = "productIntegrators"
)

// ProductRoles is the fixed set of valid product-level role types.
var ProductRoles = []Role{
	RoleProductAdmins,
	RoleProductMembers,
	RoleAlertReceivers,
	RoleProductIntegrators,
}

// ValidRole reports whether raw is a member of the product-role set.
func ValidRole(raw string) bool {
	for _, r := range ProductRoles {
		if string(r) == raw {
			return true
		}
	}
	return false
}

// CallError wraps a failed remote call with the operation that failed, so
// the HTTP layer can identify it in 5xx responses.
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("directory: %s: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
