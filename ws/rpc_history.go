package ws

import (
	"context"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aravindadityxa/nayamai/history"
	"github.com/aravindadityxa/nayamai/rpc"
)

func (h *rpcMethodHandler) handleHistoryList(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h.reply(ctx, conn, req, rpc.HistoryListResult{Messages: h.app.History.Messages()})
}

func (h *rpcMethodHandler) handleHistoryGroups(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	now := time.Now().In(h.app.History.Location())
	groups := []rpc.HistoryGroup{}
	for g := range h.app.History.GroupByDay() {
		groups = append(groups, rpc.HistoryGroup{
			Day:     g.Key,
			Label:   history.DayLabel(g.Date, now),
			Count:   len(g.Messages),
			Preview: history.Preview(g.Messages),
		})
	}
	h.reply(ctx, conn, req, rpc.HistoryGroupsResult{Groups: groups})
}

func (h *rpcMethodHandler) handleHistoryDay(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.HistoryDayParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}
	if params.Day == "" {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "day is required")
		return
	}

	group, ok := h.app.History.Day(params.Day)
	if !ok {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "no messages on "+params.Day)
		return
	}
	h.reply(ctx, conn, req, group)
}

func (h *rpcMethodHandler) handleHistoryExport(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	doc, err := h.app.Export()
	if err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}
	h.reply(ctx, conn, req, rpc.HistoryExportResult{
		Filename: history.ExportFilename(doc.ExportedAt),
		Export:   doc,
	})
}

func (h *rpcMethodHandler) handleHistoryClear(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.ConfirmParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	done, err := h.app.ClearHistory(confirmed(params))
	warns, err := warnings(err)
	if err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}
	if done {
		h.log.Info("chat history cleared")
	}
	h.reply(ctx, conn, req, rpc.ConfirmResult{Done: done, Warnings: warns})
}
