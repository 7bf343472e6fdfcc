package mcp

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/felixgeelhaar/studyflow/adapter/cli"
	"github.com/felixgeelhaar/studyflow/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RegistersTools(t *testing.T) {
	srv, err := NewServer(&cli.App{}, nil)
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)
	assert.NotEmpty(t, tools)
}

func TestNewServer_RequiresApp(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestServe_RequiresConfig(t *testing.T) {
	err := Serve(context.Background(), nil, &cli.App{}, nil)
	assert.Error(t, err)
}

func TestServe_RequiresApp(t *testing.T) {
	err := Serve(context.Background(), &config.Config{}, nil, nil)
	assert.Error(t, err)
}

func TestMCPLogger_ForwardsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := newMCPLogger(logger)

	adapter.Info("request handled", middleware.Field{Key: "method", Value: "tools/list"})
	adapter.Debug("probe")

	assert.Contains(t, buf.String(), "request handled")
	assert.Contains(t, buf.String(), "method=tools/list")
	assert.Contains(t, buf.String(), "component=mcp")
	assert.Contains(t, buf.String(), "level=DEBUG msg=probe")
}
