package mcp

import (
	"context"
	"errors"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/studyflow/adapter/cli"
	mcplocal "github.com/felixgeelhaar/studyflow/adapter/mcp"
	"github.com/felixgeelhaar/studyflow/pkg/config"
)

// NewServer builds the MCP server with the task, scheduling and settings tools registered.
func NewServer(cliApp *cli.App, logger *slog.Logger) (*mcpgo.Server, error) {
	if cliApp == nil {
		return nil, errors.New("CLI app is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    "studyflow-mcp",
		Version: "1.0.0",
		Capabilities: mcpgo.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})

	deps := mcplocal.ToolDependencies{App: cliApp}

	if err := mcplocal.RegisterTools(srv, deps); err != nil {
		return nil, err
	}

	// Resources and prompts are optional
	if err := mcplocal.RegisterResources(srv, deps); err != nil {
		logger.Warn("failed to register MCP resources", "error", err)
	}
	if err := mcplocal.RegisterPrompts(srv, deps); err != nil {
		logger.Warn("failed to register MCP prompts", "error", err)
	}

	return srv, nil
}

// Serve starts an MCP server over HTTP and blocks until the context is canceled.
func Serve(ctx context.Context, cfg *config.Config, cliApp *cli.App, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := NewServer(cliApp, logger)
	if err != nil {
		return err
	}

	adapter := newMCPLogger(logger)
	stack := middleware.DefaultStack(adapter)

	if cfg.MCPAuthToken != "" {
		authenticator := middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
			cfg.MCPAuthToken: {ID: "studyflow", Name: "studyflow"},
		}))
		stack = append([]middleware.Middleware{middleware.Auth(authenticator, middleware.WithAuthLogger(adapter))}, stack...)
	} else {
		logger.Warn("MCP auth token not set; requests will be unauthenticated")
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(stack...))
}

// mcpLogger routes mcp-go middleware logs into slog.
type mcpLogger struct {
	logger *slog.Logger
}

func newMCPLogger(logger *slog.Logger) mcpLogger {
	return mcpLogger{logger: logger.With("component", "mcp")}
}

func (l mcpLogger) Debug(msg string, fields ...middleware.Field) { l.log(slog.LevelDebug, msg, fields) }
func (l mcpLogger) Info(msg string, fields ...middleware.Field)  { l.log(slog.LevelInfo, msg, fields) }
func (l mcpLogger) Warn(msg string, fields ...middleware.Field)  { l.log(slog.LevelWarn, msg, fields) }
func (l mcpLogger) Error(msg string, fields ...middleware.Field) { l.log(slog.LevelError, msg, fields) }

func (l mcpLogger) log(level slog.Level, msg string, fields []middleware.Field) {
	attrs := make([]slog.Attr, 0, len(fields))
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
