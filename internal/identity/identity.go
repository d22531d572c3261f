// Package identity resolves roles, users, projects and domains by name
// or id against the identity service. Lookups try the id first and
// fall back to a name listing only when the id lookup reports
// NotFound; a name matching more than one entity is an error, never an
// arbitrary pick.
package identity

import (
	"context"

	"github.com/cartograph-io/cartograph/internal/cluster"
)

// Role is a named authorization role.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is an identity-service user.
type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	DefaultProjectID string `json:"default_project_id,omitempty"`
}

// Project is a tenant owning instances.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Domain is an identity partition.
type Domain struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Directory is the identity-service boundary. Get operations return
// *cluster.NotFoundError when the id is unknown; List operations
// filter by exact name and may return any number of matches.
type Directory interface {
	GetRole(ctx context.Context, id string) (*Role, error)
	ListRoles(ctx context.Context, name string) ([]Role, error)

	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, name string) ([]User, error)

	GetProject(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context, name string) ([]Project, error)

	GetDomain(ctx context.Context, id string) (*Domain, error)
	ListDomains(ctx context.Context, name string) ([]Domain, error)
}

// FindRole resolves a role by name or id.
func FindRole(ctx context.Context, d Directory, nameOrID string) (*Role, error) {
	return find(ctx, "role", nameOrID, d.GetRole, d.ListRoles)
}

// FindUser resolves a user by name or id.
func FindUser(ctx context.Context, d Directory, nameOrID string) (*User, error) {
	return find(ctx, "user", nameOrID, d.GetUser, d.ListUsers)
}

// FindProject resolves a project by name or id.
func FindProject(ctx context.Context, d Directory, nameOrID string) (*Project, error) {
	return find(ctx, "project", nameOrID, d.GetProject, d.ListProjects)
}

// FindDomain resolves a domain by name or id.
func FindDomain(ctx context.Context, d Directory, nameOrID string) (*Domain, error) {
	return find(ctx, "domain", nameOrID, d.GetDomain, d.ListDomains)
}

// find implements the lookup ladder shared by all entity kinds: id
// first, name listing only on NotFound, zero matches is NotFound,
// more than one is Ambiguous.
func find[T any](
	ctx context.Context,
	resource, nameOrID string,
	get func(context.Context, string) (*T, error),
	list func(context.Context, string) ([]T, error),
) (*T, error) {
	entity, err := get(ctx, nameOrID)
	if err == nil {
		return entity, nil
	}
	if !cluster.IsNotFound(err) {
		return nil, err
	}

	matches, err := list(ctx, nameOrID)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, &cluster.NotFoundError{Resource: resource, ID: nameOrID}
	case 1:
		return &matches[0], nil
	default:
		return nil, &cluster.AmbiguousError{Resource: resource, Name: nameOrID, Matches: len(matches)}
	}
}
