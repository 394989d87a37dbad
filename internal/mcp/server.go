package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/hussienjaafar/mojo-digital-wins/internal/config"
	"github.com/hussienjaafar/mojo-digital-wins/internal/database"
	"github.com/hussienjaafar/mojo-digital-wins/internal/evaluator"
	"github.com/hussienjaafar/mojo-digital-wins/internal/logging"
)

const protocolVersion = "2024-11-05"

// maxMessageSize bounds one newline-delimited request
const maxMessageSize = 4 << 20

// JSON-RPC 2.0 error codes
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Server answers MCP requests for the relevance tools and resources
type Server struct {
	db        *database.DB
	config    *config.Config
	evaluator *evaluator.Evaluator
	logger    *log.Logger
	version   string
	handlers  map[string]ToolHandler
	methods   map[string]methodFunc
}

// ToolHandler is a function that handles a tool call
type ToolHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// methodFunc answers one JSON-RPC method
type methodFunc func(ctx context.Context, params json.RawMessage) (interface{}, *rpcError)

type jsonRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *rpcError   `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type initializeResult struct {
	ProtocolVersion string `json:"protocolVersion"`
	Capabilities    struct {
		Tools     struct{} `json:"tools"`
		Resources struct{} `json:"resources"`
	} `json:"capabilities"`
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

type toolsListResult struct {
	Tools []Tool `json:"tools"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type callToolResult struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// New creates a server scoring against db. A nil logger discards output.
func New(db *database.DB, cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		db:        db,
		config:    cfg,
		evaluator: evaluator.New(db, logger),
		logger:    logger,
		version:   "dev",
		handlers:  make(map[string]ToolHandler),
	}
	s.methods = map[string]methodFunc{
		"initialize":                s.initialize,
		"initialized":               ignore,
		"notifications/initialized": ignore,
		"tools/list":                s.listTools,
		"tools/call":                s.callTool,
		"resources/list":            s.listResources,
		"resources/read":            s.readResource,
	}
	s.registerHandlers()
	return s
}

// SetVersion sets the version reported to clients on initialize
func (s *Server) SetVersion(v string) {
	if v != "" {
		s.version = v
	}
}

// Start serves stdin and stdout
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve answers one JSON message per line of r, writing one response per
// line to w. It returns nil at EOF and ctx.Err() once ctx is done.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := s.handleMessage(ctx, line)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read error: %w", err)
	}
	return nil
}

// handleMessage dispatches one request. Notifications (no id) never get a
// response, not even for an unknown method.
func (s *Server) handleMessage(ctx context.Context, msg []byte) *jsonRPCResponse {
	var req jsonRPCRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return reply(nil, nil, &rpcError{Code: codeParseError, Message: "Parse error"})
	}

	method, ok := s.methods[req.Method]
	if !ok {
		if req.ID == nil {
			return nil
		}
		return reply(req.ID, nil, &rpcError{Code: codeMethodNotFound, Message: "Method not found"})
	}

	result, rerr := method(ctx, req.Params)
	if req.ID == nil {
		return nil
	}
	return reply(req.ID, result, rerr)
}

func reply(id, result interface{}, rerr *rpcError) *jsonRPCResponse {
	resp := &jsonRPCResponse{JSONRPC: "2.0", ID: id}
	if rerr != nil {
		resp.Error = rerr
	} else {
		resp.Result = result
	}
	return resp
}

func invalidParams(msg string) *rpcError {
	return &rpcError{Code: codeInvalidParams, Message: msg}
}

func ignore(context.Context, json.RawMessage) (interface{}, *rpcError) {
	return nil, nil
}

func (s *Server) initialize(context.Context, json.RawMessage) (interface{}, *rpcError) {
	var result initializeResult
	result.ProtocolVersion = protocolVersion
	result.ServerInfo.Name = "relevance"
	result.ServerInfo.Version = s.version
	return result, nil
}

func (s *Server) listTools(context.Context, json.RawMessage) (interface{}, *rpcError) {
	return toolsListResult{Tools: ToolDefinitions}, nil
}

func (s *Server) listResources(context.Context, json.RawMessage) (interface{}, *rpcError) {
	return resourcesListResult{Resources: ResourceDefinitions}, nil
}

// callTool runs a tool. Tool failures are reported in the result with
// isError set; only protocol problems become JSON-RPC errors.
func (s *Server) callTool(ctx context.Context, params json.RawMessage) (interface{}, *rpcError) {
	var p callToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams("Invalid params")
	}

	handler, ok := s.handlers[p.Name]
	if !ok {
		return nil, invalidParams(fmt.Sprintf("Unknown tool: %s", p.Name))
	}

	result, err := handler(ctx, p.Arguments)
	if err != nil {
		s.logger.Warn("tool call failed", "tool", p.Name, "err", err)
		return textResult(err.Error(), true), nil
	}

	if text, ok := result.(string); ok {
		return textResult(text, false), nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode tool result", "tool", p.Name, "err", err)
		return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
	}
	return textResult(string(data), false), nil
}

func textResult(text string, isError bool) callToolResult {
	return callToolResult{Content: []contentItem{{Type: "text", Text: text}}, IsError: isError}
}

func (s *Server) readResource(ctx context.Context, params json.RawMessage) (interface{}, *rpcError) {
	var p readResourceParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParams("Invalid params")
	}

	text, err := s.handleReadResource(ctx, p.URI)
	if err != nil {
		return nil, invalidParams(err.Error())
	}

	return readResourceResult{
		Contents: []resourceContent{{URI: p.URI, MimeType: "text/plain", Text: text}},
	}, nil
}
