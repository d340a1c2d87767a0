package ws

import (
	"context"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aravindadityxa/nayamai/auth"
	"github.com/aravindadityxa/nayamai/rpc"
	"github.com/aravindadityxa/nayamai/watch"
)

func (h *rpcMethodHandler) handleSessionGet(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h.reply(ctx, conn, req, watch.ViewSession(h.app.Auth.Session()))
}

func (h *rpcMethodHandler) handleSessionLogin(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.SessionLoginParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	session, err := h.app.Login(ctx, auth.Credentials{
		Email:             params.Email,
		Password:          params.Password,
		PreferredLanguage: params.PreferredLanguage,
	})
	if _, err := warnings(err); err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}
	h.reply(ctx, conn, req, watch.ViewSession(session))
}

func (h *rpcMethodHandler) handleSessionRegister(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.SessionRegisterParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	lang := params.PreferredLanguage
	if lang == "" {
		lang = h.app.Language()
	}
	if err := h.app.Auth.Register(ctx, params.Email, params.Password, lang); err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}
	h.reply(ctx, conn, req, rpc.ConfirmResult{Done: true})
}

func (h *rpcMethodHandler) handleSessionLogout(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.ConfirmParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	done, err := h.app.Auth.Logout(confirmed(params))
	warns, err := warnings(err)
	if err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}
	h.reply(ctx, conn, req, rpc.ConfirmResult{Done: done, Warnings: warns})
}

func (h *rpcMethodHandler) handleResetQuestions(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.SessionResetQuestionsParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	questions, err := h.state.getReset(h.app.Auth).RequestQuestions(ctx, params.Email)
	if err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}
	h.reply(ctx, conn, req, rpc.SessionResetQuestionsResult{Questions: questions})
}

func (h *rpcMethodHandler) handleResetSubmit(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.SessionResetSubmitParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	reset := h.state.getReset(h.app.Auth)
	if err := reset.Submit(ctx, params.Answers, params.NewPassword, params.ConfirmPassword); err != nil {
		h.replyAppError(ctx, conn, req.ID, err)
		return
	}
	h.log.Info("password reset completed")
	h.reply(ctx, conn, req, rpc.ConfirmResult{Done: true})
}
