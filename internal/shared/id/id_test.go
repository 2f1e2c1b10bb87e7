package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsUnique(t *testing.T) {
	gen := NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.GenerateString()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestGenerateIsSortable(t *testing.T) {
	gen := NewGenerator()

	prev := gen.GenerateString()
	for i := 0; i < 100; i++ {
		next := gen.GenerateString()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestTypedIDs(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		prefix string
	}{
		{"request", NewRequestID().String(), RequestPrefix},
		{"render", NewRenderID().String(), RenderPrefix},
		{"trace", NewTraceID(), TracePrefix},
		{"span", NewSpanID(), SpanPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, strings.HasPrefix(tt.id, tt.prefix+"_"), tt.id)
			assert.True(t, IsValid(tt.id))
			assert.Len(t, strings.TrimPrefix(tt.id, tt.prefix+"_"), 26)
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, id := range []string{"", "invalid", "req_", "zzzzzzzzzzzzzzzzzzzzzzzzzzz"} {
		assert.False(t, IsValid(id), id)
	}
}

func TestHasPrefix(t *testing.T) {
	trace := NewTraceID()
	assert.True(t, HasPrefix(trace, TracePrefix))
	assert.False(t, HasPrefix(trace, SpanPrefix))

	for _, id := range []string{"", "trc_", "trc_upstream", "trc_" + strings.Repeat("Z", 26), "<script>"} {
		assert.False(t, HasPrefix(id, TracePrefix), id)
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				id := gen.GenerateString()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1600)
}
