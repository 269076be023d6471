package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// JSON-RPC 2.0 error codes.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
)

// MaxRequestBytes bounds a single JSON-RPC request body. Batched calendar
// events are the largest payloads.
const MaxRequestBytes = 4 << 20

var (
	errParse          = errors.New("parse error")
	errInvalidRequest = errors.New("invalid request")
	errTooLarge       = errors.New("request too large")
)

// Request is one tool call. Params must be a JSON object or absent.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response carries either Result or Error.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error is the JSON-RPC error object. Tool failures put the focuslog error
// code in Data.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ParseRequest decodes a single tool call. Batches are rejected because
// tool calls are independent and the client already pipelines them.
func ParseRequest(body io.Reader) (Request, error) {
	limited := &io.LimitedReader{R: body, N: MaxRequestBytes + 1}
	br := bufio.NewReader(limited)
	if first, err := peekNonSpace(br); err == nil && first == '[' {
		return Request{}, fmt.Errorf("%w: batch requests are not supported", errInvalidRequest)
	}

	var req Request
	dec := json.NewDecoder(br)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		if limited.N <= 0 {
			return Request{}, fmt.Errorf("%w: body exceeds %d bytes", errTooLarge, MaxRequestBytes)
		}
		return Request{}, fmt.Errorf("%w: %v", errParse, err)
	}
	if req.JSONRPC != "2.0" {
		return Request{}, fmt.Errorf("%w: unsupported version %q", errInvalidRequest, req.JSONRPC)
	}
	if req.Method == "" {
		return Request{}, fmt.Errorf("%w: missing method", errInvalidRequest)
	}
	if p := bytes.TrimSpace(req.Params); len(p) > 0 && p[0] != '{' && !bytes.Equal(p, []byte("null")) {
		return Request{}, fmt.Errorf("%w: params must be an object", errInvalidRequest)
	}
	return req, nil
}

// RequestErrorCode maps a ParseRequest error to its JSON-RPC code.
func RequestErrorCode(err error) int {
	if errors.Is(err, errParse) {
		return ErrParseCode
	}
	return ErrInvalidReq
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// WriteResult writes a success response.
func WriteResult(w http.ResponseWriter, id any, result any) {
	writeJSON(w, Response{JSONRPC: "2.0", Result: result, ID: id})
}

// WriteError writes an error response. JSON-RPC errors travel with HTTP 200.
func WriteError(w http.ResponseWriter, id any, code int, message string, data any) {
	writeJSON(w, Response{
		JSONRPC: "2.0",
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	})
}

func writeJSON(w http.ResponseWriter, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
