// Package mcp provides the Model Context Protocol server for SQLGram.
//
// The server exposes the tutorial catalog, the grader and the sample
// database to MCP-compatible clients. It drives the same session layer as
// the CLI and TUI so grading and progress behave identically.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/time/rate"

	"github.com/sqlgram/sqlgram/internal/config"
	"github.com/sqlgram/sqlgram/internal/session"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/pkg/version"
)

// Server wraps the MCP server with SQLGram-specific functionality.
type Server struct {
	sess      *session.Session
	cfg       config.MCPConfig
	limiter   *rate.Limiter // throttles tools that execute SQL
	server    *server.MCPServer
	telemetry telemetry.Client
}

// NewServer creates a new MCP server instance.
func NewServer(sess *session.Session, cfg config.MCPConfig, tc telemetry.Client) *Server {
	if tc == nil {
		tc = telemetry.NewNoop()
	}
	s := &Server{
		sess:      sess,
		cfg:       cfg,
		limiter:   newLimiter(cfg),
		telemetry: tc,
	}

	s.server = server.NewMCPServer(
		"sqlgram",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools()
	s.registerResources()

	return s
}

func newLimiter(cfg config.MCPConfig) *rate.Limiter {
	if cfg.QueriesPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), burst)
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve(ctx context.Context) error {
	started := 0
	for _, tp := range s.sess.Ledger().Tutorials() {
		if tp.Started {
			started++
		}
	}
	s.telemetry.TrackAppStarted("mcp", started)
	defer func() {
		st := s.sess.Stats()
		s.telemetry.TrackAppExited("mcp", s.sess.Duration().Milliseconds(), st.QueriesRun)
	}()
	return server.ServeStdio(s.server)
}

// registerTools adds all SQLGram tools to the MCP server.
func (s *Server) registerTools() {
	// Learning
	s.server.AddTool(listTutorialsTool(), s.handleListTutorials)
	s.server.AddTool(getExerciseTool(), s.handleGetExercise)
	s.server.AddTool(checkExerciseTool(), s.handleCheckExercise)
	s.server.AddTool(getProgressTool(), s.handleGetProgress)
	s.server.AddTool(resetProgressTool(), s.handleResetProgress)

	// Playground
	s.server.AddTool(runQueryTool(), s.handleRunQuery)
	s.server.AddTool(resetDatabaseTool(), s.handleResetDatabase)
	s.server.AddTool(getHistoryTool(), s.handleGetHistory)
}

// registerResources adds the schema and tutorial resources.
func (s *Server) registerResources() {
	s.server.AddResource(
		mcp.NewResource(
			schemaURI,
			"Sample database schema",
			mcp.WithResourceDescription("CREATE TABLE statements for the practice database"),
			mcp.WithMIMEType("text/plain"),
		),
		s.handleSchemaResource,
	)

	s.server.AddResourceTemplate(
		mcp.NewResourceTemplate(
			resourcePrefix+"tutorial/{id}",
			"Tutorial lesson",
			mcp.WithTemplateDescription("Markdown lesson text for a tutorial"),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleTutorialResource,
	)
}
