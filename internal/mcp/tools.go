package mcp

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"

	"github.com/contextops/context-cli/internal/cache"
	"github.com/contextops/context-cli/internal/resolve"
)

// Frozen tool-level error codes. Tool failures are successful JSON-RPC
// responses carrying isError; JSON-RPC errors are reserved for transport and
// routing failures.
const (
	codeCacheMissing  = "cache_missing"
	codeCacheInvalid  = "cache_invalid"
	codeInvalidQuery  = "invalid_query"
	codeInvalidBudget = "invalid_budget"
	codeIOError       = "io_error"
	codeInternalError = "internal_error"
)

// errorMessages are fixed per code so error payloads are byte-stable.
var errorMessages = map[string]string{
	codeCacheMissing:  "Cache does not exist",
	codeCacheInvalid:  "Cache is invalid",
	codeInvalidQuery:  "Invalid query",
	codeInvalidBudget: "Invalid budget",
	codeIOError:       "I/O error accessing cache",
	codeInternalError: "Internal error",
}

type contentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolResult struct {
	Content []contentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type toolsListResult struct {
	Tools []toolInfo `json:"tools"`
}

func (s *Server) listTools() toolsListResult {
	return toolsListResult{Tools: []toolInfo{
		{
			Name:        "context.resolve",
			Description: "Rank the documents of a named cache against a query and select a budget-constrained subset.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"cache":  map[string]any{"type": "string", "description": "Cache name under the configured root"},
					"query":  map[string]any{"type": "string", "description": "Query text; may be empty"},
					"budget": map[string]any{"type": "integer", "minimum": 0, "description": "Selection budget in bytes"},
				},
				"required": []string{"cache", "query", "budget"},
			},
		},
		{
			Name:        "context.list_caches",
			Description: "List cache-shaped directories under the configured root.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "context.inspect_cache",
			Description: "Report version, document count, and health of a named cache.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"cache": map[string]any{"type": "string", "description": "Cache name under the configured root"},
				},
				"required": []string{"cache"},
			},
		},
	}}
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// callTool executes one tool invocation. Routing problems (unknown tool,
// unparsable params) surface as JSON-RPC errors; every failure inside a tool
// surfaces as an isError result and keeps the server loop alive.
func (s *Server) callTool(params json.RawMessage) (*toolResult, *rpcError) {
	var p toolCallParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	switch p.Name {
	case "context.resolve":
		return s.toolResolve(p.Arguments), nil
	case "context.list_caches":
		return s.toolListCaches(), nil
	case "context.inspect_cache":
		return s.toolInspectCache(p.Arguments), nil
	}
	return nil, &rpcError{Code: codeMethodNotFound, Message: "Unknown tool: " + p.Name}
}

func (s *Server) toolResolve(args map[string]any) *toolResult {
	name, ok := stringArg(args, "cache")
	if !ok || !filepath.IsLocal(name) {
		return errorResult(codeInvalidQuery)
	}
	query, ok := stringArg(args, "query")
	if !ok {
		return errorResult(codeInvalidQuery)
	}
	budget, ok := budgetArg(args)
	if !ok {
		return errorResult(codeInvalidBudget)
	}

	handle, err := cache.Open(filepath.Join(s.cacheRoot, name))
	if err != nil {
		return errorResultFor(err)
	}
	result, err := resolve.Resolve(handle, query, budget)
	if err != nil {
		return errorResultFor(err)
	}
	return textResult(result)
}

func (s *Server) toolListCaches() *toolResult {
	infos, err := cache.List(s.cacheRoot)
	if err != nil {
		return errorResultFor(err)
	}
	return textResult(struct {
		Caches []cache.Info `json:"caches"`
	}{Caches: infos})
}

func (s *Server) toolInspectCache(args map[string]any) *toolResult {
	name, ok := stringArg(args, "cache")
	if !ok || !filepath.IsLocal(name) {
		return errorResult(codeInvalidQuery)
	}
	report, err := cache.Inspect(filepath.Join(s.cacheRoot, name), cache.InspectOptions{})
	if err != nil {
		return errorResultFor(err)
	}
	return textResult(report)
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// budgetArg accepts a non-negative integer-valued JSON number.
func budgetArg(args map[string]any) (int64, bool) {
	v, ok := args["budget"]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// textResult wraps a tool payload as the single text content item holding its
// compact JSON. The inner text is the same byte sequence the CLI prints.
func textResult(v any) *toolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return errorResult(codeInternalError)
	}
	return &toolResult{Content: []contentItem{{Type: "text", Text: string(b)}}}
}

// errorResultFor maps an engine error to its frozen tool error code.
func errorResultFor(err error) *toolResult {
	switch {
	case errors.Is(err, cache.ErrCacheMissing):
		return errorResult(codeCacheMissing)
	case errors.Is(err, cache.ErrCacheInvalid):
		return errorResult(codeCacheInvalid)
	case errors.Is(err, cache.ErrIO):
		return errorResult(codeIOError)
	case errors.Is(err, resolve.ErrInvalidQuery):
		return errorResult(codeInvalidQuery)
	case errors.Is(err, resolve.ErrInvalidBudget):
		return errorResult(codeInvalidBudget)
	}
	return errorResult(codeInternalError)
}

type toolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorResult(code string) *toolResult {
	payload := struct {
		Error toolError `json:"error"`
	}{Error: toolError{Code: code, Message: errorMessages[code]}}
	b, _ := json.Marshal(payload)
	return &toolResult{
		Content: []contentItem{{Type: "text", Text: string(b)}},
		IsError: true,
	}
}
