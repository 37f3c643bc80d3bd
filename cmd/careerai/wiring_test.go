package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/careerai/internal/adapters/llm"
	memstore "github.com/PabloGalante/careerai/internal/adapters/storage/memory"
	"github.com/PabloGalante/careerai/internal/config"
)

func TestBuildDepsLocal(t *testing.T) {
	d, err := buildDeps(context.Background(), &config.Config{
		Mode:           config.ModeLocal,
		StorageBackend: "memory",
		UseMockLLM:     true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	assert.IsType(t, &llm.MockLLM{}, d.generator)
	assert.IsType(t, &memstore.InterviewStore{}, d.interviews)
	assert.IsType(t, &memstore.EventLog{}, d.events)
	assert.Nil(t, d.objects)
	assert.Nil(t, d.gateway)
	assert.NotNil(t, d.registry)
}
