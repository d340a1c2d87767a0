package ws

import (
	"encoding/json"
	"errors"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aravindadityxa/nayamai/apperr"
	"github.com/aravindadityxa/nayamai/assistant"
	"github.com/aravindadityxa/nayamai/auth"
	"github.com/aravindadityxa/nayamai/locale"
	"github.com/aravindadityxa/nayamai/notify"
	"github.com/aravindadityxa/nayamai/rpc"
)

func toRPCError(err error, lang locale.Language) *jsonrpc2.Error {
	n := notify.FromError(err, lang)
	rpcErr := &jsonrpc2.Error{
		Code:    errorCode(err),
		Message: n.Text,
	}
	if data, marshalErr := json.Marshal(rpc.ErrorData{Level: string(n.Level)}); marshalErr == nil {
		raw := json.RawMessage(data)
		rpcErr.Data = &raw
	}
	return rpcErr
}

func errorCode(err error) int64 {
	var (
		verr   *apperr.ValidationError
		cerr   *apperr.UnsupportedCapabilityError
		apiErr *apperr.APIError
		netErr *apperr.NetworkError
	)
	switch {
	case errors.As(err, &verr):
		return rpc.CodeValidation
	case errors.As(err, &cerr):
		return rpc.CodeUnsupported
	case errors.Is(err, assistant.ErrSendInFlight):
		return rpc.CodeBusy
	case errors.Is(err, auth.ErrNotAuthenticated):
		return rpc.CodeNotAuthenticated
	case errors.As(err, &apiErr), errors.As(err, &netErr):
		return rpc.CodeBackend
	default:
		return rpc.CodeInternal
	}
}

// warnings turns a persistence warning into display text. Any other error
// is returned as fatal.
func warnings(err error) ([]string, error) {
	if err == nil {
		return nil, nil
	}
	if !apperr.IsWarning(err) {
		return nil, err
	}
	return []string{err.Error()}, nil
}
