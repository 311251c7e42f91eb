package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/competition-service/internal/domain"
	"github.com/competition-service/internal/repository/sqlite"
	"github.com/competition-service/internal/synthetic"
)

func seedFile(t *testing.T) (string, uuid.UUID) {
	t.Helper()
	cfg := synthetic.DefaultConfig()
	cfg.Markets = 6
	cfg.Cells = 50
	project, base, err := synthetic.Generate(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "demo.sqlite")
	store, err := sqlite.Open(path, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	id := uuid.New()
	ctx := context.Background()
	require.NoError(t, store.SaveProject(ctx, id, project))
	require.NoError(t, store.SaveBaseData(ctx, base))
	return path, id
}

func TestRun_BothSettings(t *testing.T) {
	path, id := seedFile(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, path, "", "both", 3, 1.0, zap.NewNop()))

	text := out.String()
	assert.Contains(t, text, "nullfall  project "+id.String())
	assert.Contains(t, text, "planfall  project "+id.String())
	assert.Contains(t, text, "Revenue")
}

func TestRun_Errors(t *testing.T) {
	path, _ := seedFile(t)
	ctx := context.Background()

	err := run(ctx, &bytes.Buffer{}, path, "", "zukunft", 0, 1.0, zap.NewNop())
	assert.Error(t, err)

	err = run(ctx, &bytes.Buffer{}, path, "not-a-uuid", "both", 0, 1.0, zap.NewNop())
	assert.Error(t, err)

	err = run(ctx, &bytes.Buffer{}, path, uuid.NewString(), "nullfall", 0, 1.0, zap.NewNop())
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.sqlite")
	err = run(ctx, &bytes.Buffer{}, empty, "", "both", 0, 1.0, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}
