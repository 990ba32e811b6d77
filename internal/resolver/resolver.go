// Package resolver maps GitHub organization names onto product scopes of
// the remote directory. Products are fetched fresh on every call; nothing
// is cached across requests.
package resolver

import (
	"context"
	"strings"
	"time"

	"orgsync.dev/internal/directory"
	"orgsync.dev/internal/obs"
)

// Transform is the pure organization-name → product-name policy: every
// rune of Chars is replaced with Replacement. An empty Chars set is the
// identity function.
type Transform struct {
	Chars       string
	Replacement string
}

// Apply rewrites an organization name into the expected product name.
func (t Transform) Apply(name string) string {
	fixed := name
	for _, c := range t.Chars {
		fixed = strings.ReplaceAll(fixed, string(c), t.Replacement)
	}
	return fixed
}

// Resolution is the outcome of resolving a list of organization names.
// Products holds the resolved records in surviving input order; Unresolved
// holds the input names with no matching product, in input order.
type Resolution struct {
	Products   []directory.Product
	Unresolved []string
}

// Resolver resolves organization names against the remote product registry.
type Resolver struct {
	dir       directory.Service
	transform Transform
}

func New(dir directory.Service, transform Transform) *Resolver {
	return &Resolver{dir: dir, transform: transform}
}

// Resolve fetches the product registry once and maps every input name
// through the transform onto it. Duplicate remote product names resolve
// last-write-wins. An unresolved name is not an error; a failed registry
// fetch is.
func (r *Resolver) Resolve(ctx context.Context, orgNames []string) (Resolution, error) {
	products, err := r.dir.ListProducts(ctx)
	if err != nil {
		return Resolution{}, err
	}

	byName := make(map[string]directory.Product, len(products))
	for _, p := range products {
		byName[p.Name] = p
	}

	var res Resolution
	for _, orgName := range orgNames {
		productName := r.transform.Apply(orgName)
		p, ok := byName[productName]
		if !ok {
			obs.LogRequest(map[string]any{
				"ts":           time.Now().UTC().Format(time.RFC3339Nano),
				"level":        "warn",
				"msg":          "organization not found in directory",
				"organization": orgName,
				"product_name": productName,
			})
			res.Unresolved = append(res.Unresolved, orgName)
			continue
		}
		res.Products = append(res.Products, p)
	}
	return res, nil
}
