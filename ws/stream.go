package ws

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/coder/websocket"
	"github.com/sourcegraph/jsonrpc2"
)

// maxMessageBytes caps a single inbound frame. History exports are the
// largest payloads and travel outbound only.
const maxMessageBytes = 1 << 20

// wsStream carries one JSON-RPC object per WebSocket text frame. Reads
// and writes stop when the connection's context ends.
type wsStream struct {
	ctx     context.Context
	conn    *websocket.Conn
	writeMu sync.Mutex
}

var _ jsonrpc2.ObjectStream = (*wsStream)(nil)

func newWSStream(ctx context.Context, conn *websocket.Conn) *wsStream {
	conn.SetReadLimit(maxMessageBytes)
	return &wsStream{ctx: ctx, conn: conn}
}

func (s *wsStream) ReadObject(v any) error {
	typ, data, err := s.conn.Read(s.ctx)
	if err != nil {
		// A clean close ends the jsonrpc2 read loop without an error.
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return io.EOF
		}
		return err
	}
	if typ != websocket.MessageText {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeParseError, Message: "binary frames are not supported"}
	}
	return json.Unmarshal(data, v)
}

func (s *wsStream) WriteObject(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.Write(s.ctx, websocket.MessageText, data)
}

func (s *wsStream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
