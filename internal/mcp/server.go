// Package mcp serves the resolver tools over line-delimited JSON-RPC 2.0 on
// a byte stream.
//
// The server is stateless per call: each request is parsed into its own
// request value, each tool call opens a fresh cache handle, and nothing
// survives from one request to the next. Identical repeated calls therefore
// produce byte-identical inner results, with only the request id varying in
// the envelope.
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

const (
	serverName      = "mcp-context-server"
	serverVersion   = "0.1.0"
	protocolVersion = "2024-11-05"
)

// JSON-RPC 2.0 routing error codes. Tool-level failures never use these;
// they travel as isError tool results instead.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server answers JSON-RPC requests against caches under a fixed root
// directory. The root is the only configuration it carries.
type Server struct {
	cacheRoot string
}

// New creates a server that addresses caches by name under cacheRoot.
func New(cacheRoot string) *Server {
	return &Server{cacheRoot: cacheRoot}
}

// Serve reads one request per line from in and writes exactly one response
// per request to out, in order, until in reaches EOF. Notifications
// (requests without an id) receive no response. A line that is not valid
// JSON gets a parse-error response with a null id.
func (s *Server) Serve(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	w := bufio.NewWriter(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := writeResponse(w, response{
				JSONRPC: "2.0",
				ID:      json.RawMessage("null"),
				Error:   &rpcError{Code: codeParseError, Message: "Parse error"},
			}); err != nil {
				return err
			}
			continue
		}

		resp, reply := s.dispatch(&req)
		if !reply {
			continue
		}
		if err := writeResponse(w, resp); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cannot read request stream: %w", err)
	}
	return nil
}

// dispatch routes one request. The returned bool is false for notifications,
// which must not be answered.
func (s *Server) dispatch(req *request) (response, bool) {
	if req.ID == nil {
		// Notification (e.g. notifications/initialized). Nothing to do.
		return response{}, false
	}

	resp := response{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "initialize":
		resp.Result = s.initialize()
	case "tools/list":
		resp.Result = s.listTools()
	case "tools/call":
		result, rpcErr := s.callTool(req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
	case "ping":
		resp.Result = struct{}{}
	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "Method not found"}
	}
	return resp, true
}

func writeResponse(w *bufio.Writer, resp response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cannot marshal response: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return err
	}
	return w.Flush()
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type capabilities struct {
	Tools struct{} `json:"tools"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    capabilities `json:"capabilities"`
	ServerInfo      serverInfo   `json:"serverInfo"`
}

func (s *Server) initialize() initializeResult {
	return initializeResult{
		ProtocolVersion: protocolVersion,
		ServerInfo:      serverInfo{Name: serverName, Version: serverVersion},
	}
}
