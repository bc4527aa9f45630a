package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jdbaldry/go-language-server-protocol/lsp/protocol"
	"github.com/rs/zerolog/log"
)

// rpcMessage is a JSON-RPC 2.0 envelope, permissive enough to decode both
// requests (with an id) and notifications (without one).
type rpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server is a diagnostics-only LSP server: it tracks open documents and
// recompiles each one as a Kuiper expression on open/change, publishing
// the resulting CompileError (if any) as a Diagnostic. It implements
// neither completion, hover, nor go-to-definition.
type Server struct {
	cache      *cache
	inputNames []string
	out        *bufio.Writer
}

// NewServer builds a Server that resolves every document's identifiers
// against inputNames, the fixed input-slot list a client supplies via
// initializationOptions.
func NewServer(w io.Writer, inputNames []string) *Server {
	return &Server{cache: newCache(), inputNames: inputNames, out: bufio.NewWriter(w)}
}

// Serve reads Content-Length-framed JSON-RPC messages from r until EOF or
// a "shutdown" request.
func (s *Server) Serve(r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		msg, err := readMessage(reader)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.dispatch(msg); err != nil {
			log.Error().Err(err).Str("method", msg.Method).Msg("handler failed")
		}
		if msg.Method == "shutdown" {
			return nil
		}
	}
}

func (s *Server) dispatch(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized", "$/setTrace", "$/cancelRequest":
		return nil
	case "shutdown":
		return s.writeResult(msg.ID, nil)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	default:
		if len(msg.ID) > 0 {
			return s.writeError(msg.ID, -32601, fmt.Sprintf("method not found: %s", msg.Method))
		}
		return nil
	}
}

type initializeParams struct {
	InitializationOptions struct {
		InputNames []string `json:"inputNames"`
	} `json:"initializationOptions"`
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return err
		}
	}
	if len(params.InitializationOptions.InputNames) > 0 {
		s.inputNames = params.InitializationOptions.InputNames
	}
	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.Full,
		},
	}
	return s.writeResult(msg.ID, result)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc := &document{item: params.TextDocument}
	doc.diagnostics = compileDiagnostics(doc.item.Text, s.inputNames)
	if err := s.cache.put(doc); err != nil {
		return err
	}
	return s.publishDiagnostics(doc)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	doc, err := s.cache.get(params.TextDocument.URI)
	if err != nil {
		doc = &document{item: protocol.TextDocumentItem{URI: params.TextDocument.URI}}
	}
	// kuiper-lsp only advertises full-document sync, so the last change
	// event carries the entire new text.
	if n := len(params.ContentChanges); n > 0 {
		doc.item.Text = params.ContentChanges[n-1].Text
	}
	doc.diagnostics = compileDiagnostics(doc.item.Text, s.inputNames)
	if err := s.cache.put(doc); err != nil {
		return err
	}
	return s.publishDiagnostics(doc)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	s.cache.delete(params.TextDocument.URI)
	return nil
}

func (s *Server) publishDiagnostics(doc *document) error {
	params := protocol.PublishDiagnosticsParams{
		URI:         doc.item.URI,
		Diagnostics: doc.diagnostics,
	}
	if params.Diagnostics == nil {
		params.Diagnostics = []protocol.Diagnostic{}
	}
	return s.writeNotification("textDocument/publishDiagnostics", params)
}

func (s *Server) writeResult(id json.RawMessage, result any) error {
	return s.writeMessage(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeError(id json.RawMessage, code int, message string) error {
	return s.writeMessage(rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func (s *Server) writeNotification(method string, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return s.writeMessage(rpcMessage{JSONRPC: "2.0", Method: method, Params: raw})
}

func (s *Server) writeMessage(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	if _, err := s.out.Write(body); err != nil {
		return err
	}
	return s.out.Flush()
}

func readMessage(r *bufio.Reader) (*rpcMessage, error) {
	var contentLength int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if line == "\r\n" || line == "\n" {
			break
		}
		var length int
		if _, err := fmt.Sscanf(line, "Content-Length: %d", &length); err == nil {
			contentLength = length
		}
	}
	if contentLength <= 0 {
		return nil, fmt.Errorf("lsp: missing or zero Content-Length header")
	}
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	var msg rpcMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
