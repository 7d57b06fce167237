package server

import (
	"context"
	"errors"
	"testing"

	"github.com/richard-senior/mcpsession/pkg/mcp"
	"github.com/richard-senior/mcpsession/pkg/mcperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequiresName(t *testing.T) {
	_, err := NewBuilder().WithInfo("", "1.0").Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcperrors.New(mcperrors.KindMissingParameter, "")))
}

func TestBuildRequiresVersion(t *testing.T) {
	_, err := NewBuilder().WithInfo("test-server", "").Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcperrors.New(mcperrors.KindMissingParameter, "")))
}

func TestBuilderFluentRegistration(t *testing.T) {
	called := false
	tool := mcp.Tool{Name: "echo", Description: "echoes input"}
	srv, err := NewBuilder().
		WithInfo("test-server", "1.0").
		WithLogging().
		WithTools().
		WithResourcesConfig(true, false).
		WithTool(tool, func(ctx context.Context, args map[string]any) (*mcp.ToolsCallResult, error) {
			called = true
			return &mcp.ToolsCallResult{}, nil
		}).
		Build()
	require.NoError(t, err)
	require.NotNil(t, srv)

	assert.Equal(t, "test-server", srv.Info().Name)
	assert.NotNil(t, srv.Capabilities().Logging)
	assert.NotNil(t, srv.Capabilities().Tools)
	assert.NotNil(t, srv.Capabilities().Resources)
	assert.Equal(t, 1, srv.Tools().Len())

	result, err := srv.Tools().Call(context.Background(), "echo", nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, called)
}

func TestBuilderRegistersResourceAndPrompt(t *testing.T) {
	res := mcp.Resource{URI: "file:///greeting.txt", Name: "greeting"}
	prompt := mcp.Prompt{Name: "greet"}

	srv, err := NewBuilder().
		WithInfo("test-server", "1.0").
		WithResource(res, func(ctx context.Context, uri string) (*mcp.ResourcesReadResult, error) {
			return &mcp.ResourcesReadResult{}, nil
		}).
		WithPrompt(prompt, func(ctx context.Context, args map[string]string) (*mcp.PromptsGetResult, error) {
			return &mcp.PromptsGetResult{}, nil
		}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Resources().Len())
	assert.Equal(t, 1, srv.Prompts().Len())
}

func TestBuilderWithMonitoringNilExporter(t *testing.T) {
	srv, err := NewBuilder().
		WithInfo("test-server", "1.0").
		WithMonitoring(nil).
		Build()
	require.NoError(t, err)
	require.NotNil(t, srv)
}
