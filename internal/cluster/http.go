package cluster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPSource talks to the cluster inventory API over HTTP. It maps
// HTTP 404 to NotFoundError and everything else that goes wrong on the
// wire to TransportError, so the builder never sees raw transport
// details.
type HTTPSource struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewHTTPSource creates an inventory client for the given base URL.
// The token is optional; when set it is sent as a bearer token.
func NewHTTPSource(baseURL, token string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		authToken: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListAggregates implements Source.
func (s *HTTPSource) ListAggregates(ctx context.Context) ([]Aggregate, error) {
	var out struct {
		Aggregates []Aggregate `json:"aggregates"`
	}
	if err := s.get(ctx, "/v2/os-aggregates", "", &out); err != nil {
		return nil, err
	}
	return out.Aggregates, nil
}

// ListZoneServices implements Source.
func (s *HTTPSource) ListZoneServices(ctx context.Context) ([]ZoneService, error) {
	var out struct {
		Services []ZoneService `json:"services"`
	}
	if err := s.get(ctx, "/v2/os-services", "", &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

// ListHosts implements Source.
func (s *HTTPSource) ListHosts(ctx context.Context) ([]HostRecord, error) {
	var out struct {
		Hypervisors []HostRecord `json:"hypervisors"`
	}
	if err := s.get(ctx, "/v2/os-hypervisors/detail", "", &out); err != nil {
		return nil, err
	}
	return out.Hypervisors, nil
}

// GetHost implements Source.
func (s *HTTPSource) GetHost(ctx context.Context, id string) (*HostRecord, error) {
	var out struct {
		Hypervisor HostRecord `json:"hypervisor"`
	}
	if err := s.get(ctx, "/v2/os-hypervisors/"+url.PathEscape(id), id, &out); err != nil {
		return nil, err
	}
	return &out.Hypervisor, nil
}

// ListInstancesForHost implements Source.
func (s *HTTPSource) ListInstancesForHost(ctx context.Context, hostID string) ([]string, error) {
	var out struct {
		Servers []struct {
			UUID string `json:"uuid"`
		} `json:"servers"`
	}
	path := "/v2/os-hypervisors/" + url.PathEscape(hostID) + "/servers"
	if err := s.get(ctx, path, hostID, &out); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out.Servers))
	for _, srv := range out.Servers {
		ids = append(ids, srv.UUID)
	}
	return ids, nil
}

// GetInstance implements Source.
func (s *HTTPSource) GetInstance(ctx context.Context, id string) (*InstanceRecord, error) {
	var out struct {
		Server InstanceRecord `json:"server"`
	}
	if err := s.get(ctx, "/v2/servers/"+url.PathEscape(id), id, &out); err != nil {
		return nil, err
	}
	return &out.Server, nil
}

// get performs a GET request and decodes the JSON response into v.
func (s *HTTPSource) get(ctx context.Context, path, id string, v interface{}) error {
	op := "GET " + path
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+path, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Resource: resourceFromPath(path), ID: id}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// resourceFromPath names the entity kind for error messages.
func resourceFromPath(path string) string {
	switch {
	case strings.Contains(path, "os-hypervisors"):
		return "host"
	case strings.Contains(path, "/servers"):
		return "instance"
	case strings.Contains(path, "os-aggregates"):
		return "aggregate"
	case strings.Contains(path, "os-services"):
		return "service"
	}
	return "resource"
}
