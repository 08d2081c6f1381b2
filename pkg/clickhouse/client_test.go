package clickhouse

import (
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	cfg := ClientConfig{Port: 9000, Database: "tradelens", User: "default", DialTimeout: 5 * time.Second}
	WithHost("ch.local")(&cfg)
	WithCredentials("svc", "secret")(&cfg)
	WithAsyncInsert(true, true)(&cfg)
	WithMaxExecutionTime(90 * time.Second)(&cfg)

	o := options(cfg)
	assert.Equal(t, []string{"ch.local:9000"}, o.Addr)
	assert.Equal(t, clickhouse.Native, o.Protocol)
	assert.Equal(t, "tradelens", o.Auth.Database)
	assert.Equal(t, "svc", o.Auth.Username)
	assert.Equal(t, 90, o.Settings["max_execution_time"])
	assert.Equal(t, 1, o.Settings["async_insert"])
	assert.Equal(t, 1, o.Settings["wait_for_async_insert"])
	assert.Equal(t, 5*time.Second, o.DialTimeout)
}

func TestOptionsHTTP(t *testing.T) {
	cfg := ClientConfig{Host: "ch", Port: 8123}
	WithHTTP(true)(&cfg)

	o := options(cfg)
	assert.Equal(t, clickhouse.HTTP, o.Protocol)
	assert.Empty(t, o.Settings)
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient(WithPort(9000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host is required")
}
