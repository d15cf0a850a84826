package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/pipewright"
	"github.com/aretw0/pipewright/internal/compiler"
	"github.com/aretw0/pipewright/internal/logging"
	"github.com/aretw0/pipewright/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PipelinesURI is the resource listing stored documents.
const PipelinesURI = "pipewright://pipelines"

// CompileArgs are the arguments of the compile_pipeline and publish_pipeline tools.
type CompileArgs struct {
	Name       string `json:"name,omitempty"`
	Definition string `json:"definition"`
	Format     string `json:"format,omitempty"`
}

// CompileResponse aligns with the HTTP document schema.
type CompileResponse struct {
	Name   string `json:"name,omitempty" jsonschema_description:"Document name, set when the document was stored"`
	Text   string `json:"text" jsonschema_description:"The compiled document"`
	Stages int    `json:"stages" jsonschema_description:"Number of stages"`
	Jobs   int    `json:"jobs" jsonschema_description:"Number of jobs across all stages"`
}

// Engine defines the document operations exposed as MCP tools.
type Engine interface {
	Compile(p *domain.Pipeline) (string, error)
	Publish(ctx context.Context, name string, p *domain.Pipeline) (*domain.Document, error)
	Get(ctx context.Context, name string) (*domain.Document, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Graph(ctx context.Context, name string) (string, error)
}

// Server wraps the Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for rejected tool calls and the SSE listener.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("pipewright-mcp", strings.TrimSpace(pipewright.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_pipelines",
		mcp.WithDescription("List the names of all stored pipeline documents."),
	), s.handleList)

	s.mcpServer.AddTool(mcp.NewTool("get_pipeline",
		mcp.WithDescription("Get the compiled YAML text of a stored pipeline document."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name")),
	), s.handleGet)

	s.mcpServer.AddTool(mcp.NewTool("graph_pipeline",
		mcp.WithDescription("Render a stored pipeline as a Mermaid flowchart."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name")),
	), s.handleGraph)

	s.mcpServer.AddTool(mcp.NewTool("delete_pipeline",
		mcp.WithDescription("Delete a stored pipeline document."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name")),
	), s.handleDelete)

	s.mcpServer.AddTool(mcp.NewTool("compile_pipeline",
		mcp.WithDescription("Compile a pipeline definition without storing it."),
		mcp.WithString("definition", mcp.Required(), mcp.Description("Pipeline definition source")),
		mcp.WithString("format", mcp.Description("Definition format: yaml (default) or hcl"), mcp.Enum("yaml", "hcl")),
		mcp.WithOutputSchema[CompileResponse](),
	), mcp.NewStructuredToolHandler(s.handleCompile))

	s.mcpServer.AddTool(mcp.NewTool("publish_pipeline",
		mcp.WithDescription("Compile a pipeline definition and store it under a name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name")),
		mcp.WithString("definition", mcp.Required(), mcp.Description("Pipeline definition source")),
		mcp.WithString("format", mcp.Description("Definition format: yaml (default) or hcl"), mcp.Enum("yaml", "hcl")),
		mcp.WithOutputSchema[CompileResponse](),
	), mcp.NewStructuredToolHandler(s.handlePublish))
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.engine.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.engine.Get(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get %q failed: %v", name, err)), nil
	}
	return mcp.NewToolResultText(doc.Text), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.engine.Graph(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph %q failed: %v", name, err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.engine.Delete(ctx, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete %q failed: %v", name, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted %s", name)), nil
}

func parseDefinition(args CompileArgs) (*domain.Pipeline, error) {
	if strings.TrimSpace(args.Definition) == "" {
		return nil, errors.New("definition is required")
	}
	switch strings.ToLower(args.Format) {
	case "", "yaml", "yml":
		return compiler.Parse([]byte(args.Definition))
	case "hcl":
		return compiler.ParseHCL([]byte(args.Definition), "definition.hcl")
	default:
		return nil, fmt.Errorf("unknown format %q", args.Format)
	}
}

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args CompileArgs) (CompileResponse, error) {
	p, err := parseDefinition(args)
	if err != nil {
		s.logger.Warn("MCP compile: definition rejected", "err", err)
		return CompileResponse{}, err
	}
	text, err := s.engine.Compile(p)
	if err != nil {
		return CompileResponse{}, fmt.Errorf("compile failed: %w", err)
	}
	return CompileResponse{Text: text, Stages: len(p.Stages), Jobs: p.JobCount()}, nil
}

func (s *Server) handlePublish(ctx context.Context, request mcp.CallToolRequest, args CompileArgs) (CompileResponse, error) {
	p, err := parseDefinition(args)
	if err != nil {
		s.logger.Warn("MCP publish: definition rejected", "err", err)
		return CompileResponse{}, err
	}
	doc, err := s.engine.Publish(ctx, args.Name, p)
	if err != nil {
		return CompileResponse{}, fmt.Errorf("publish failed: %w", err)
	}
	return CompileResponse{Name: doc.Name, Text: doc.Text, Stages: len(p.Stages), Jobs: p.JobCount()}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(PipelinesURI, "Stored Pipeline Documents",
		mcp.WithMIMEType("application/json"),
	), s.readPipelines)
}

func (s *Server) readPipelines(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := s.engine.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}
	jsonBytes, _ := json.Marshal(names)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      PipelinesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
