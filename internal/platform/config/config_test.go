package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5, cfg.Queue.MaxAttempts)
	assert.Equal(t, "30s", cfg.Queue.BackoffBase.String())
	assert.Equal(t, "1440h0m0s", cfg.EventLogRetention.String(), "retention defaults to 60 days")
	assert.Equal(t, "24h0m0s", cfg.SweepInterval.String())
}

func TestParseSourceKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{
			name: "empty",
			raw:  "",
			want: map[string]string{},
		},
		{
			name: "single pair",
			raw:  "key-1:client-a",
			want: map[string]string{"key-1": "client-a"},
		},
		{
			name: "multiple pairs with whitespace",
			raw:  "key-1:client-a, key-2:client-b",
			want: map[string]string{"key-1": "client-a", "key-2": "client-b"},
		},
		{
			name: "malformed pairs are dropped",
			raw:  "key-1:client-a,no-colon,:client-b,key-2:",
			want: map[string]string{"key-1": "client-a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{SourceKeys: tt.raw}
			assert.Equal(t, tt.want, cfg.ParseSourceKeys())
		})
	}
}

func TestKafkaBrokerList(t *testing.T) {
	cfg := &Config{}
	assert.Nil(t, cfg.KafkaBrokerList())

	cfg.Kafka.Brokers = "broker-1:9092, broker-2:9092,"
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokerList())
}
