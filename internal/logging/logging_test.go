package logging

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{name: "empty defaults to info", in: "", want: INFO},
		{name: "info", in: "info", want: INFO},
		{name: "debug mixed case", in: " Debug ", want: DEBUG},
		{name: "trace", in: "trace", want: TRACE},
		{name: "unknown", in: "verbose", want: INFO, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLoggerVerbosity(t *testing.T) {
	l, err := NewLogger(DEBUG, false)
	require.NoError(t, err)
	assert.True(t, l.V(DEBUG).Enabled())
	assert.False(t, l.V(TRACE).Enabled())
}

func TestContextRoundTrip(t *testing.T) {
	l, err := NewLogger(INFO, true)
	require.NoError(t, err)

	ctx := IntoContext(context.Background(), l)
	got := FromContext(ctx)
	assert.Equal(t, l.GetSink(), got.GetSink())

	// a bare context still yields a usable logger
	FromContext(context.Background()).Info("no logger in context")
	assert.NotPanics(t, func() { FromContext(context.TODO()).V(TRACE).Info("x") })
}

func TestSyncWithoutZap(t *testing.T) {
	assert.NoError(t, Sync(logr.Discard()))
}
