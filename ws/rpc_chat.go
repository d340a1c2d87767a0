package ws

import (
	"context"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aravindadityxa/nayamai/logger"
	"github.com/aravindadityxa/nayamai/notify"
	"github.com/aravindadityxa/nayamai/rpc"
)

func (h *rpcMethodHandler) handleChatSend(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.ChatSendParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	h.log.Info("received message", "preview", logger.Truncate(params.Message, 50))

	reply, err := h.app.Assistant.Send(ctx, params.Message)
	if err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}

	result := rpc.ChatSendResult{
		Message:  reply.Message,
		Language: reply.Language,
		Degraded: reply.Degraded,
	}
	if reply.Degraded {
		result.Error = notify.FromError(reply.Cause, h.app.Language()).Text
	}
	for _, w := range reply.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	h.reply(ctx, conn, req, result)
}

func (h *rpcMethodHandler) handleChatGreet(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	msg, added, err := h.app.Assistant.Greet()
	if _, err := warnings(err); err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}

	result := rpc.ChatGreetResult{Added: added}
	if added {
		result.Message = &msg
	}
	h.reply(ctx, conn, req, result)
}

func (h *rpcMethodHandler) handleChatClear(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.ConfirmParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	done, err := h.app.ClearChat(confirmed(params))
	warns, err := warnings(err)
	if err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}
	h.reply(ctx, conn, req, rpc.ConfirmResult{Done: done, Warnings: warns})
}

// confirmed answers a confirmation prompt with the client's choice.
func confirmed(p rpc.ConfirmParams) func(string) bool {
	return func(string) bool { return p.Confirmed }
}
