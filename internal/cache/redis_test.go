package cache

import (
	"context"
	"testing"
	"time"
)

// Every helper must be a safe no-op when Redis is not connected: the
// request path degrades to the database, it never panics or errors.
func TestHelpersWithoutConnection(t *testing.T) {
	Client = nil
	ctx := context.Background()

	var dest map[string]int
	if GetJSON(ctx, DashboardSummaryKey, &dest) {
		t.Error("GetJSON must report a miss without a connection")
	}

	SetJSON(ctx, DashboardSummaryKey, map[string]int{"open": 3}, time.Minute)
	Invalidate(ctx, DashboardSummaryKey)
	Invalidate(ctx)
}
