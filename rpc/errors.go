package rpc

// Application error codes, outside the range reserved by JSON-RPC 2.0.
const (
	CodeValidation       int64 = 1001
	CodeUnsupported      int64 = 1002
	CodeBusy             int64 = 1003
	CodeNotAuthenticated int64 = 1004
	CodeBackend          int64 = 1005
	CodeInternal         int64 = 1006
)

// ErrorData is attached to application errors so clients can style the
// notification.
type ErrorData struct {
	Level string `json:"level"`
}
