package cluster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/v2/os-aggregates", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"aggregates": [
			{"id": "1", "name": "gpu-pool", "hosts": ["node-1", "node-2"]}
		]}`))
	})
	mux.HandleFunc("/v2/os-services", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"services": [
			{"host": "node-1", "zone": "az-1"}
		]}`))
	})
	mux.HandleFunc("/v2/os-hypervisors/detail", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hypervisors": [
			{"id": 1, "hypervisor_hostname": "node-1.example.org",
			 "service": {"host": "node-1"},
			 "memory_mb": 65536, "free_disk_gb": 200, "local_gb": 500,
			 "vcpus": 32, "state": "up", "status": "enabled"}
		]}`))
	})
	mux.HandleFunc("/v2/os-hypervisors/node-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hypervisor":
			{"id": 1, "hypervisor_hostname": "node-1.example.org",
			 "service": {"host": "node-1", "disabled_reason": "maintenance"},
			 "memory_mb": 65536, "vcpus": 32, "state": "up", "status": "disabled"}
		}`))
	})
	mux.HandleFunc("/v2/os-hypervisors/node-1/servers", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"servers": [{"uuid": "i-1"}, {"uuid": "i-2"}]}`))
	})
	mux.HandleFunc("/v2/servers/i-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"server":
			{"uuid": "i-1", "name": "vm-1",
			 "flavor": {"ram": 2048, "disk": 20, "vcpus": 2},
			 "vm_state": "active", "tenant_id": "p-web",
			 "metadata": {"tier": "gold"}, "locked": false, "host": "node-1"}
		}`))
	})
	mux.HandleFunc("/v2/servers/i-broken", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"server": `))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return httptest.NewServer(mux)
}

func TestHTTPSource_ListAggregates(t *testing.T) {
	srv := newInventoryServer(t)
	defer srv.Close()
	source := NewHTTPSource(srv.URL, "secret", 5*time.Second)

	aggs, err := source.ListAggregates(context.Background())
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, "gpu-pool", aggs[0].Name)
	assert.Equal(t, []string{"node-1", "node-2"}, aggs[0].Hosts)
}

func TestHTTPSource_ListZoneServices(t *testing.T) {
	srv := newInventoryServer(t)
	defer srv.Close()
	source := NewHTTPSource(srv.URL, "secret", 5*time.Second)

	services, err := source.ListZoneServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "az-1", services[0].Zone)
}

func TestHTTPSource_ListHosts(t *testing.T) {
	srv := newInventoryServer(t)
	defer srv.Close()
	source := NewHTTPSource(srv.URL, "secret", 5*time.Second)

	hosts, err := source.ListHosts(context.Background())
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "node-1", hosts[0].Service.Host)
	assert.Equal(t, int64(65536), hosts[0].MemoryMB)
}

func TestHTTPSource_GetHost(t *testing.T) {
	srv := newInventoryServer(t)
	defer srv.Close()
	source := NewHTTPSource(srv.URL, "secret", 5*time.Second)

	host, err := source.GetHost(context.Background(), "node-1")
	require.NoError(t, err)
	assert.Equal(t, "node-1.example.org", host.Hostname)
	assert.Equal(t, "maintenance", host.Service.DisabledReason)
}

func TestHTTPSource_GetHostNotFound(t *testing.T) {
	srv := newInventoryServer(t)
	defer srv.Close()
	source := NewHTTPSource(srv.URL, "secret", 5*time.Second)

	_, err := source.GetHost(context.Background(), "node-gone")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "host", nf.Resource)
	assert.Equal(t, "node-gone", nf.ID)
}

func TestHTTPSource_ListInstancesForHost(t *testing.T) {
	srv := newInventoryServer(t)
	defer srv.Close()
	source := NewHTTPSource(srv.URL, "secret", 5*time.Second)

	ids, err := source.ListInstancesForHost(context.Background(), "node-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"i-1", "i-2"}, ids)
}

func TestHTTPSource_GetInstance(t *testing.T) {
	srv := newInventoryServer(t)
	defer srv.Close()
	source := NewHTTPSource(srv.URL, "secret", 5*time.Second)

	inst, err := source.GetInstance(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, "vm-1", inst.Name)
	assert.Equal(t, int64(2048), inst.Flavor.RAM)
	assert.Equal(t, "node-1", inst.HostID)
	assert.Equal(t, "gold", inst.Metadata["tier"])
}

func TestHTTPSource_MalformedResponseIsTransportError(t *testing.T) {
	srv := newInventoryServer(t)
	defer srv.Close()
	source := NewHTTPSource(srv.URL, "secret", 5*time.Second)

	_, err := source.GetInstance(context.Background(), "i-broken")
	require.Error(t, err)

	var te *TransportError
	assert.ErrorAs(t, err, &te)
	assert.False(t, IsNotFound(err))
}

func TestHTTPSource_ServerErrorIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	source := NewHTTPSource(srv.URL, "", 5*time.Second)

	_, err := source.ListHosts(context.Background())
	require.Error(t, err)

	var te *TransportError
	assert.ErrorAs(t, err, &te)
}

func TestHTTPSource_UnreachableIsTransportError(t *testing.T) {
	source := NewHTTPSource("http://127.0.0.1:1", "", 500*time.Millisecond)

	_, err := source.ListHosts(context.Background())
	require.Error(t, err)

	var te *TransportError
	assert.True(t, errors.As(err, &te))
}
