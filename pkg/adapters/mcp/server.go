// Package mcp exposes taskstream pipelines as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/taskstream"
	"github.com/aretw0/taskstream/internal/dto"
	"github.com/aretw0/taskstream/internal/presentation/graph"
	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ProblemResponse summarizes an assembled problem for a model.
type ProblemResponse struct {
	Name       string   `json:"name" jsonschema_description:"Problem name"`
	StreamMode string   `json:"stream_mode" jsonschema_description:"real or debug"`
	Streams    []string `json:"streams" jsonschema_description:"Bound stream names"`
	Init       []string `json:"init" jsonschema_description:"Initial facts"`
	Goal       []string `json:"goal" jsonschema_description:"Goal conjuncts"`
}

// TranslationResponse is a translated plan with a Mermaid diagram of it.
type TranslationResponse struct {
	Commands []map[string]any  `json:"commands" jsonschema_description:"Executor commands in plan order"`
	Spans    [][2]int          `json:"spans" jsonschema_description:"Half-open command range of every action"`
	Holding  map[string]string `json:"holding,omitempty" jsonschema_description:"Objects still attached after the plan"`
	Diagram  string            `json:"diagram" jsonschema_description:"Mermaid flowchart of the plan"`
}

// Pipelines resolves a scenario name to its pipeline.
type Pipelines interface {
	Get(name string) (*taskstream.Pipeline, error)
	Names() []string
}

// Server exposes pipelines as an MCP Server.
type Server struct {
	pipelines Pipelines
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. A nil logger discards logs.
func NewServer(pipelines Pipelines, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		pipelines: pipelines,
		logger:    logger,
		mcpServer: server.NewMCPServer("taskstream-mcp", taskstream.Version()),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
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

		s.logger.Info("shutting down MCP server")
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
	s.mcpServer.AddTool(mcp.NewTool("list_scenarios",
		mcp.WithDescription("List the planning scenarios this server can assemble and translate."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, _ := json.Marshal(s.pipelines.Names())
		return mcp.NewToolResultText(string(data)), nil
	})

	assembleTool := mcp.NewTool("assemble_problem",
		mcp.WithDescription("Assemble the planning problem of a scenario: initial facts, goal and stream map."),
		mcp.WithString("scenario", mcp.Required(), mcp.Description("Scenario name")),
		mcp.WithString("entities", mcp.Description(`JSON array of entities, e.g. [{"name": "cup", "pose": [7.5, 0, 0]}]. Omit for the scenario defaults.`)),
		mcp.WithBoolean("strict", mcp.Description("Reject entities that match no classification rule")),
		mcp.WithBoolean("debug", mcp.Description("Use the debug stream map")),
		mcp.WithOutputSchema[ProblemResponse](),
	)
	s.mcpServer.AddTool(assembleTool, mcp.NewStructuredToolHandler(s.handleAssemble))

	translateTool := mcp.NewTool("translate_plan",
		mcp.WithDescription("Translate a solver plan into executor commands."),
		mcp.WithString("scenario", mcp.Required(), mcp.Description("Scenario name")),
		mcp.WithString("plan", mcp.Required(), mcp.Description(`JSON array of actions, e.g. [["drop_rock", "v1", "store"]]`)),
		mcp.WithOutputSchema[TranslationResponse](),
	)
	s.mcpServer.AddTool(translateTool, mcp.NewStructuredToolHandler(s.handleTranslate))
}

func (s *Server) handleAssemble(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ProblemResponse, error) {
	p, err := s.pipeline(args)
	if err != nil {
		return ProblemResponse{}, err
	}

	var entities []domain.Entity
	if raw, ok := args["entities"].(string); ok && raw != "" {
		var in []dto.EntityDTO
		if err := json.Unmarshal([]byte(raw), &in); err != nil {
			return ProblemResponse{}, fmt.Errorf("entities must be a JSON array: %w", err)
		}
		if entities, err = dto.ToEntities(in); err != nil {
			return ProblemResponse{}, err
		}
	}
	strict, _ := args["strict"].(bool)
	debug, _ := args["debug"].(bool)

	problem, err := p.AssembleInstance(ctx, &domain.Instance{Name: "mcp", Entities: entities, Strict: strict, Debug: debug})
	if err != nil {
		s.logger.Warn("MCP assemble failed", "scenario", p.Name(), "error", err)
		return ProblemResponse{}, fmt.Errorf("assemble failed: %w", err)
	}

	resp := ProblemResponse{
		Name:       problem.Name,
		StreamMode: string(problem.Streams.Mode()),
		Streams:    problem.Streams.Names(),
		Init:       make([]string, len(problem.Init)),
	}
	if resp.Streams == nil {
		resp.Streams = []string{}
	}
	for i, f := range problem.Init {
		resp.Init[i] = f.String()
	}
	for _, c := range domain.Conjuncts(problem.Goal) {
		resp.Goal = append(resp.Goal, c.String())
	}
	return resp, nil
}

func (s *Server) handleTranslate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TranslationResponse, error) {
	p, err := s.pipeline(args)
	if err != nil {
		return TranslationResponse{}, err
	}
	raw, _ := args["plan"].(string)
	var actions []dto.ActionDTO
	if err := json.Unmarshal([]byte(raw), &actions); err != nil {
		return TranslationResponse{}, fmt.Errorf("plan must be a JSON array of actions: %w", err)
	}
	plan := dto.SolutionDocument{Plan: &actions}.ToPlan()

	res, err := p.Translate(ctx, plan)
	if err != nil {
		s.logger.Warn("MCP translate failed", "scenario", p.Name(), "error", err)
		return TranslationResponse{}, fmt.Errorf("translate failed: %w", err)
	}
	out := dto.FromResult(res)
	return TranslationResponse{
		Commands: out.Commands,
		Spans:    out.Spans,
		Holding:  out.Holding,
		Diagram:  graph.GenerateMermaid(plan, res, nil),
	}, nil
}

func (s *Server) pipeline(args map[string]interface{}) (*taskstream.Pipeline, error) {
	name, _ := args["scenario"].(string)
	if name == "" {
		return nil, fmt.Errorf("scenario is required")
	}
	return s.pipelines.Get(name)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("taskstream://scenarios", "Available scenarios",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, _ := json.Marshal(s.pipelines.Names())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "taskstream://scenarios",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
