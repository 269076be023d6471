package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/focuslog/internal/app"
	"github.com/rpggio/focuslog/internal/domain/classify"
	"github.com/rpggio/focuslog/internal/mcp"
	"github.com/rpggio/focuslog/internal/sqlite"
	"github.com/rpggio/focuslog/internal/transport"
	"github.com/stretchr/testify/require"
)

// Clock is a settable time source shared by every service of a TestServer.
type Clock struct {
	ms atomic.Int64
}

func (c *Clock) Now() time.Time { return time.UnixMilli(c.ms.Load()) }

// Set moves the clock to ms.
func (c *Clock) Set(ms int64) { c.ms.Store(ms) }

// Classifier answers every prompt with a fixed payload per task.
type Classifier struct {
	Payloads map[classify.Task]string
	Calls    atomic.Int64
}

func (c *Classifier) Classify(_ context.Context, p classify.Prompt) (*classify.Result, error) {
	c.Calls.Add(1)
	payload, ok := c.Payloads[p.Task]
	if !ok {
		return &classify.Result{Refusal: "no canned answer"}, nil
	}
	return &classify.Result{Payload: json.RawMessage(payload)}, nil
}

type TestServer struct {
	Server     *httptest.Server
	DB         *sqlite.DB
	App        *app.App
	Clock      *Clock
	Classifier *Classifier
	Token      string
	UserID     string
}

func New(t *testing.T, token, userID string) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	clock := &Clock{}
	clock.Set(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC).UnixMilli())
	classifier := &Classifier{Payloads: map[classify.Task]string{}}

	graph := app.New(db, app.Options{
		Classifier: classifier,
		Heuristic:  classify.NewAllowListHeuristic([]string{"Code"}, []string{"github.com"}),
		Clock:      clock.Now,
	})

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      graph.MCPServices(),
		Resolver:      graph.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	streamable := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	router := transport.NewServer(
		mcp.NewHandler(graph.MCPServices()),
		transport.AuthMiddleware(graph.APIKeys),
		transport.WithMCP(streamable),
	)
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:     server,
		DB:         db,
		App:        graph,
		Clock:      clock,
		Classifier: classifier,
		Token:      token,
		UserID:     userID,
	}

	require.NoError(t, graph.APIKeys.Create(context.Background(), token, userID, "test"))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// Call posts one JSON-RPC tool call to /rpc and decodes the result into out.
// It returns the JSON-RPC error, if any.
func (ts *TestServer) Call(t *testing.T, method string, params any, out any) *transport.Error {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ts.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Result json.RawMessage  `json:"result"`
		Error  *transport.Error `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if envelope.Error != nil {
		return envelope.Error
	}
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Result, out))
	}
	return nil
}
