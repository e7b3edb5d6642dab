// Package mcptools exposes the style checker as MCP tools.
package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with check_file, check_paths and
// list_rules registered.
func NewServer(svc *StyleService, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "epita-style",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_file",
		Description: "Check one C or C++ file against the EPITA coding style. Pass a path, or inline content with a filename whose extension picks the language. Returns every violation with its line, column, rule and severity.",
	}, svc.CheckFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_paths",
		Description: "Check every C and C++ file under the given files or directories. Honors .gitignore and exclude globs. Returns per-file MAJOR/MINOR counts, the totals and all violations.",
	}, svc.CheckPaths)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_rules",
		Description: "List the style rules with their category, language, severity and description.",
	}, svc.ListRules)

	return server
}

// RunStdio serves on stdio, blocking until stdin is closed or ctx is
// cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
