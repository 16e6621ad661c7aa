package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewAuditMCPServer creates an MCP server with the compliance audit tools registered.
func NewAuditMCPServer(svc *AuditService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "medaudit",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: "run_audit",
		Description: "Run a full regulatory compliance audit of a medical device software change. " +
			"Plans which standards apply (IEC 62304, ISO 14971, ISO 13485), synthesizes requirements " +
			"and risk documents, deliberates with one reviewer per standard, and returns per-standard " +
			"verdicts plus a rendered report.",
	}, svc.RunAudit)

	mcp.AddTool(server, &mcp.Tool{
		Name: "plan_standards",
		Description: "Determine which of the supported standards (IEC 62304, ISO 14971, ISO 13485) " +
			"a described change impacts. Fail-open: unclassifiable text returns the full set.",
	}, svc.PlanStandards)

	return server
}

// RunMCPServer starts an HTTP server exposing the compliance audit MCP tools.
func RunMCPServer(ctx context.Context, svc *AuditService, addr string) error {
	server := NewAuditMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
