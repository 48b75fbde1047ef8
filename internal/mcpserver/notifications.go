package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aellingwood/excerpt/internal/server"
)

// postsURI is the resource clients subscribe to for post changes.
const postsURI = "excerpt://posts"

// startWatcher marks the post context dirty and notifies subscribers when
// files in the posts directory change.
func (es *ExcerptServer) startWatcher(ctx context.Context) {
	if es.posts.dir == "" {
		return
	}
	watcher := server.NewWatcher([]string{es.posts.dir}, es.cfg.Server.Debounce, es.log, func(paths []string) {
		es.posts.MarkDirty()
		err := es.server.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: postsURI})
		if err != nil {
			es.log.Debug().Err(err).Msg("resource update notification")
		}
	})

	go func() {
		if err := watcher.Start(); err != nil {
			es.log.Warn().Err(err).Msg("file watching disabled")
		}
	}()
	go func() {
		<-ctx.Done()
		watcher.Stop()
	}()
}
