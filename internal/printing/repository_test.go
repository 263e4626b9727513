package printing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRepositoryTimeoutBoundsTransactionContext(t *testing.T) {
	r := NewRepository(nil, 5*time.Second)
	ctx, cancel := r.opCtx(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok, "transaction context must carry a deadline")
	require.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

func TestRepositoryZeroTimeoutLeavesContextUnbounded(t *testing.T) {
	r := NewRepository(nil, 0)
	ctx, cancel := r.opCtx(context.Background())
	defer cancel()

	_, ok := ctx.Deadline()
	require.False(t, ok)
}
