package ws

import (
	"context"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aravindadityxa/nayamai/assistant"
	"github.com/aravindadityxa/nayamai/rpc"
)

func (h *rpcMethodHandler) handleHospitalsNearby(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.HospitalsNearbyParams
	if req.Params != nil {
		if err := unmarshalParams(req, &params); err != nil {
			h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
			return
		}
	}

	var (
		result assistant.Nearby
		err    error
	)
	switch {
	case params.Latitude != nil && params.Longitude != nil:
		result, err = h.app.Assistant.NearbyAt(ctx, assistant.Location{
			Latitude:  *params.Latitude,
			Longitude: *params.Longitude,
		})
	case params.Latitude != nil || params.Longitude != nil:
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "latitude and longitude go together")
		return
	default:
		result, err = h.app.Assistant.Nearby(ctx)
	}
	if err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}

	h.reply(ctx, conn, req, rpc.HospitalsNearbyResult{
		Latitude:  result.Location.Latitude,
		Longitude: result.Location.Longitude,
		Hospitals: result.Hospitals,
	})
}

func (h *rpcMethodHandler) handleStateSubscribe(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	id, snapshot := h.app.State.Subscribe(h.state.getNotifier())
	h.state.trackSubscription(id)
	h.log.Debug("subscribed to state", "watchId", id)

	h.reply(ctx, conn, req, rpc.StateSubscribeResult{ID: id, Snapshot: snapshot})
}

func (h *rpcMethodHandler) handleStateUnsubscribe(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.StateUnsubscribeParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}
	if params.ID == "" {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "id is required")
		return
	}

	// Only subscriptions made on this connection may be removed.
	if h.state.untrackSubscription(params.ID) {
		h.app.State.Unsubscribe(params.ID)
	}
	h.log.Debug("unsubscribed", "watcher", "state", "watchId", params.ID)

	h.reply(ctx, conn, req, struct{}{})
}
