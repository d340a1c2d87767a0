package ws

import (
	"context"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aravindadityxa/nayamai/rpc"
)

func (h *rpcMethodHandler) handleSettingsGet(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h.reply(ctx, conn, req, h.app.Settings.Get())
}

func (h *rpcMethodHandler) handleSettingsUpdate(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.SettingsUpdateParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	var warns []string
	if params.Theme != nil {
		w, err := warnings(h.app.Settings.SetTheme(*params.Theme))
		if err != nil {
			h.replyAppError(ctx, conn, req.ID, err)
			return
		}
		warns = append(warns, w...)
	}
	if params.Language != nil {
		w, err := warnings(h.app.SetLanguage(*params.Language))
		if err != nil {
			h.replyAppError(ctx, conn, req.ID, err)
			return
		}
		warns = append(warns, w...)
	}

	h.reply(ctx, conn, req, rpc.ConfirmResult{Done: true, Warnings: warns})
}
