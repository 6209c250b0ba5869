package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// resourcePrefix is the URI scheme for SQLGram resources.
const resourcePrefix = "sqlgram://"

const schemaURI = resourcePrefix + "schema"

// parseTutorialURI extracts the id from a sqlgram://tutorial/{id} URI.
func parseTutorialURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, resourcePrefix+"tutorial/") {
		return "", fmt.Errorf("invalid URI scheme: %s", uri)
	}
	id := strings.TrimPrefix(uri, resourcePrefix+"tutorial/")
	if id == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("invalid tutorial id in URI: %s", uri)
	}
	return id, nil
}

// handleSchemaResource handles the sqlgram://schema resource.
func (s *Server) handleSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.telemetry.TrackSchemaViewed("mcp")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     s.sess.Schema(),
		},
	}, nil
}

// handleTutorialResource handles sqlgram://tutorial/{id} resources.
func (s *Server) handleTutorialResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, err := parseTutorialURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	t, err := s.sess.Catalog().Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tutorial: %w", err)
	}
	s.telemetry.TrackTutorialViewed(t.ID)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     t.Body,
		},
	}, nil
}
