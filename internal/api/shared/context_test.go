package shared

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexTraceID = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := SetTraceID(context.Background())

	traceID := GetTraceID(ctx)
	assert.Regexp(t, hexTraceID, traceID)
}

func TestGetTraceID_MissingReturnsEmpty(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestSetTraceID_ProducesDistinctIDs(t *testing.T) {
	first := GetTraceID(SetTraceID(context.Background()))
	second := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, first, second)
}
