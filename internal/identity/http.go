package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cartograph-io/cartograph/internal/cluster"
)

// HTTPDirectory talks to the identity service over HTTP. Error mapping
// follows the same rules as the inventory client: 404 becomes
// NotFoundError, anything else that fails becomes TransportError.
type HTTPDirectory struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewHTTPDirectory creates an identity client for the given base URL.
func NewHTTPDirectory(baseURL, token string, timeout time.Duration) *HTTPDirectory {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPDirectory{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		authToken: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (d *HTTPDirectory) GetRole(ctx context.Context, id string) (*Role, error) {
	var out struct {
		Role Role `json:"role"`
	}
	if err := d.get(ctx, "/v3/roles/"+url.PathEscape(id), "role", id, &out); err != nil {
		return nil, err
	}
	return &out.Role, nil
}

func (d *HTTPDirectory) ListRoles(ctx context.Context, name string) ([]Role, error) {
	var out struct {
		Roles []Role `json:"roles"`
	}
	if err := d.get(ctx, "/v3/roles?name="+url.QueryEscape(name), "role", name, &out); err != nil {
		return nil, err
	}
	return out.Roles, nil
}

func (d *HTTPDirectory) GetUser(ctx context.Context, id string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := d.get(ctx, "/v3/users/"+url.PathEscape(id), "user", id, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (d *HTTPDirectory) ListUsers(ctx context.Context, name string) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := d.get(ctx, "/v3/users?name="+url.QueryEscape(name), "user", name, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (d *HTTPDirectory) GetProject(ctx context.Context, id string) (*Project, error) {
	var out struct {
		Project Project `json:"project"`
	}
	if err := d.get(ctx, "/v3/projects/"+url.PathEscape(id), "project", id, &out); err != nil {
		return nil, err
	}
	return &out.Project, nil
}

func (d *HTTPDirectory) ListProjects(ctx context.Context, name string) ([]Project, error) {
	var out struct {
		Projects []Project `json:"projects"`
	}
	if err := d.get(ctx, "/v3/projects?name="+url.QueryEscape(name), "project", name, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (d *HTTPDirectory) GetDomain(ctx context.Context, id string) (*Domain, error) {
	var out struct {
		Domain Domain `json:"domain"`
	}
	if err := d.get(ctx, "/v3/domains/"+url.PathEscape(id), "domain", id, &out); err != nil {
		return nil, err
	}
	return &out.Domain, nil
}

func (d *HTTPDirectory) ListDomains(ctx context.Context, name string) ([]Domain, error) {
	var out struct {
		Domains []Domain `json:"domains"`
	}
	if err := d.get(ctx, "/v3/domains?name="+url.QueryEscape(name), "domain", name, &out); err != nil {
		return nil, err
	}
	return out.Domains, nil
}

func (d *HTTPDirectory) get(ctx context.Context, path, resource, id string, v interface{}) error {
	op := "GET " + path
	req, err := http.NewRequestWithContext(ctx, "GET", d.baseURL+path, nil)
	if err != nil {
		return &cluster.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if d.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.authToken)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return &cluster.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &cluster.NotFoundError{Resource: resource, ID: id}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &cluster.TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &cluster.TransportError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}
