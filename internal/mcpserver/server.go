package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/aellingwood/excerpt/internal/config"
)

// ExcerptServer is the MCP server for excerpt.
type ExcerptServer struct {
	server  *mcp.Server
	cfg     *config.Config
	posts   *PostContext
	log     zerolog.Logger
	version string
}

// New creates an ExcerptServer. postsDir may be empty, in which case tools
// work on posts passed inline only.
func New(cfg *config.Config, postsDir, version string, logger zerolog.Logger) *ExcerptServer {
	es := &ExcerptServer{
		cfg:     cfg,
		posts:   NewPostContext(postsDir),
		log:     logger.With().Str("component", "mcp").Logger(),
		version: version,
	}

	es.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "excerpt",
			Version: version,
		},
		nil,
	)

	es.registerResources()
	es.registerTools()
	es.registerPrompts()

	return es
}

// Run starts the MCP server on the given transport.
func (es *ExcerptServer) Run(ctx context.Context, transport mcp.Transport) error {
	es.startWatcher(ctx)
	return es.server.Run(ctx, transport)
}

func ptr[T any](v T) *T {
	return &v
}
