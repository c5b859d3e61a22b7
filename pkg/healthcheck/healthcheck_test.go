package healthcheck

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakePinger bool

func (p fakePinger) Ping(ctx context.Context) bool { return bool(p) }

func TestHealthCheck_AggregatesStatus(t *testing.T) {
	hc := New("1.0.0", zaptest.NewLogger(t))
	hc.Register("backend", NewServiceChecker("http://api", fakePinger(true)))
	hc.Register("cache", NewCustomChecker("cache", func(ctx context.Context) (Status, string, interface{}) {
		return StatusDegraded, "slow", nil
	}))

	resp := hc.Check(context.Background())
	assert.Equal(t, StatusDegraded, resp.Status)
	require.Len(t, resp.Checks, 2)
	assert.Equal(t, "backend", resp.Checks[0].Name)
	assert.Equal(t, "cache", resp.Checks[1].Name)

	hc.Register("store", NewServiceChecker("db", fakePinger(false)))
	resp = hc.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, "service unreachable", resp.Checks[2].Message)
}

func TestHealthCheck_JSON(t *testing.T) {
	hc := New("2.0.0", zaptest.NewLogger(t))
	hc.Register("backend", NewServiceChecker("http://api", fakePinger(true)))

	data, err := json.Marshal(hc.Check(context.Background()))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "healthy", decoded["status"])
	assert.Equal(t, "2.0.0", decoded["version"])
	assert.Contains(t, decoded, "total_duration_ms")
}

func TestRedisChecker(t *testing.T) {
	client, mock := redismock.NewClientMock()

	mock.ExpectPing().SetVal("PONG")
	check := NewRedisChecker(client).Check(context.Background())
	assert.Equal(t, StatusHealthy, check.Status)

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	check = NewRedisChecker(client).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, check.Status)
	assert.Equal(t, "connection refused", check.Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}
