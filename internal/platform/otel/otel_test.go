package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	shutdown, err := Setup(context.Background(), "awardvote-test", "", true)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetupNoopWhenDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "awardvote-test", "http://localhost:4318", false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, shutdown(ctx))
}

func TestSetupCreatesProvider(t *testing.T) {
	// Non-routable address: nothing is exported because no spans are recorded.
	shutdown, err := Setup(context.Background(), "awardvote-test", "http://192.0.2.1:4318", true)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
