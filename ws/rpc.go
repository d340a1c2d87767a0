package ws

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/aravindadityxa/nayamai/app"
	"github.com/aravindadityxa/nayamai/auth"
	"github.com/aravindadityxa/nayamai/logger"
	"github.com/aravindadityxa/nayamai/rpc"
)

const title = "NAYAM AI"

// RPCHandler handles JSON-RPC 2.0 over WebSocket.
type RPCHandler struct {
	token   string
	version string
	devMode bool
	app     *app.App
}

func NewRPCHandler(token, version string, devMode bool, a *app.App) *RPCHandler {
	return &RPCHandler{
		token:   token,
		version: version,
		devMode: devMode,
		app:     a,
	}
}

func (h *RPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.devMode,
	})
	if err != nil {
		slog.Error("failed to accept websocket", "error", err)
		return
	}

	h.handleConnection(r.Context(), conn)
}

func (h *RPCHandler) handleConnection(ctx context.Context, wsConn *websocket.Conn) {
	connID := uuid.Must(uuid.NewV7()).String()
	h.HandleStream(ctx, newWSStream(ctx, wsConn), connID)
}

func (h *RPCHandler) HandleStream(ctx context.Context, stream jsonrpc2.ObjectStream, connID string) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "websocket connection crashed", "connId", connID)
		}
	}()

	log := slog.With("connId", connID)
	log.Info("new connection")

	state := &rpcConnState{
		connID: connID,
		log:    log,
	}

	handler := &rpcMethodHandler{
		RPCHandler: h,
		state:      state,
		log:        log,
	}

	rpcConn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.AsyncHandler(handler))
	state.setConn(rpcConn)

	<-rpcConn.DisconnectNotify()

	state.cleanup(h.app)
	log.Info("connection closed")
}

// rpcConnState tracks per-connection state.
type rpcConnState struct {
	mu            sync.Mutex
	connID        string
	conn          *jsonrpc2.Conn
	notifier      *JSONRPCNotifier
	log           *slog.Logger
	reset         *auth.Reset         // password reset flow, created on first use
	subscriptions map[string]struct{} // state subscription IDs for cleanup
}

func (s *rpcConnState) setConn(conn *jsonrpc2.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.notifier = NewJSONRPCNotifier(conn)
	s.subscriptions = make(map[string]struct{})
	s.mu.Unlock()
}

func (s *rpcConnState) getNotifier() *JSONRPCNotifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifier
}

func (s *rpcConnState) getReset(m *auth.Manager) *auth.Reset {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reset == nil {
		s.reset = m.NewReset()
	}
	return s.reset
}

func (s *rpcConnState) trackSubscription(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[id] = struct{}{}
}

func (s *rpcConnState) untrackSubscription(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subscriptions[id]
	delete(s.subscriptions, id)
	return ok
}

func (s *rpcConnState) cleanup(a *app.App) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.subscriptions {
		a.State.Unsubscribe(id)
	}
	s.subscriptions = nil

	// Catches subscriptions whose reply never reached the client.
	if s.notifier != nil {
		a.State.RemoveByNotifier(s.notifier)
	}
	s.reset = nil
}

type rpcMethodHandler struct {
	*RPCHandler
	state         *rpcConnState
	log           *slog.Logger
	authenticated atomic.Bool
}

type methodFunc func(h *rpcMethodHandler, ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request)

// methods maps each RPC method, grouped by namespace, to its handler.
var methods = map[string]methodFunc{
	"chat.send":  (*rpcMethodHandler).handleChatSend,
	"chat.greet": (*rpcMethodHandler).handleChatGreet,
	"chat.clear": (*rpcMethodHandler).handleChatClear,

	"history.list":   (*rpcMethodHandler).handleHistoryList,
	"history.groups": (*rpcMethodHandler).handleHistoryGroups,
	"history.day":    (*rpcMethodHandler).handleHistoryDay,
	"history.export": (*rpcMethodHandler).handleHistoryExport,
	"history.clear":  (*rpcMethodHandler).handleHistoryClear,

	"settings.get":    (*rpcMethodHandler).handleSettingsGet,
	"settings.update": (*rpcMethodHandler).handleSettingsUpdate,

	"session.get":             (*rpcMethodHandler).handleSessionGet,
	"session.login":           (*rpcMethodHandler).handleSessionLogin,
	"session.register":        (*rpcMethodHandler).handleSessionRegister,
	"session.logout":          (*rpcMethodHandler).handleSessionLogout,
	"session.reset.questions": (*rpcMethodHandler).handleResetQuestions,
	"session.reset.submit":    (*rpcMethodHandler).handleResetSubmit,

	"hospitals.nearby": (*rpcMethodHandler).handleHospitalsNearby,

	"state.subscribe":   (*rpcMethodHandler).handleStateSubscribe,
	"state.unsubscribe": (*rpcMethodHandler).handleStateUnsubscribe,
}

func (h *rpcMethodHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "rpc handler panic", "method", req.Method, "connId", h.state.connID)
		}
	}()

	h.log.Debug("received request", "method", req.Method, "id", req.ID)

	// Nothing but auth is served until the token checks out.
	if !h.authenticated.Load() {
		if req.Method != "auth" {
			h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidRequest, "first request must be auth")
			conn.Close()
			return
		}
		h.handleAuth(ctx, conn, req)
		return
	}

	fn, ok := methods[req.Method]
	if !ok {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeMethodNotFound, "method not found: "+req.Method)
		return
	}
	fn(h, ctx, conn, req)
}

func (h *rpcMethodHandler) handleAuth(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.AuthParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		conn.Close()
		return
	}

	if subtle.ConstantTimeCompare([]byte(params.Token), []byte(h.token)) != 1 {
		h.log.Warn("invalid auth token")
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidRequest, "invalid token")
		conn.Close()
		return
	}

	h.authenticated.Store(true)
	h.log.Info("authenticated")

	result := rpc.AuthResult{
		Version: h.version,
		Title:   title,
	}
	if err := conn.Reply(ctx, req.ID, result); err != nil {
		h.log.Error("failed to send auth response", "error", err)
	}
}

func (h *rpcMethodHandler) replyError(ctx context.Context, conn *jsonrpc2.Conn, id jsonrpc2.ID, code int64, message string) {
	err := &jsonrpc2.Error{
		Code:    code,
		Message: message,
	}
	if replyErr := conn.ReplyWithError(ctx, id, err); replyErr != nil {
		h.log.Error("failed to send error response", "error", replyErr)
	}
}

// replyAppError reports an operation failure with the user-facing text.
func (h *rpcMethodHandler) replyAppError(ctx context.Context, conn *jsonrpc2.Conn, id jsonrpc2.ID, err error) {
	rpcErr := toRPCError(err, h.app.Language())
	if replyErr := conn.ReplyWithError(ctx, id, rpcErr); replyErr != nil {
		h.log.Error("failed to send error response", "error", replyErr)
	}
}

func (h *rpcMethodHandler) reply(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request, result any) {
	if err := conn.Reply(ctx, req.ID, result); err != nil {
		h.log.Error("failed to send response", "method", req.Method, "error", err)
	}
}

func unmarshalParams(req *jsonrpc2.Request, v any) error {
	if req.Params == nil {
		return errors.New("params required")
	}
	return json.Unmarshal(*req.Params, v)
}
