// Package ipc defines the JSON wire envelope exchanged between the
// front-end surface and the request router: one request in, one final
// response out, with zero or more progress events in between for transfers.
package ipc

// Request is a single inbound call on a channel.
type Request struct {
	Channel string `json:"channel"`
	ID      string `json:"id"`
	Payload any    `json:"payload,omitempty"`
}

// Response is the uniform envelope returned for every request: on success,
// Success is true and domain fields travel in Data; on failure, Error and
// Code are set and Data is omitted.
type Response struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// ProgressEvent is pushed out-of-band during a transfer. It always precedes
// the final Response carrying the same transfer id.
type ProgressEvent struct {
	Channel    string `json:"channel"`
	TransferID string `json:"transferId"`
	Bytes      int64  `json:"bytes"`
	Total      int64  `json:"total"`
}

// Closed set of error codes the router and its handlers ever emit.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeHandlerError     = "HANDLER_ERROR"
	CodeNoConnection     = "NO_CONNECTION"
	CodeAuthError        = "AUTH_ERROR"
	CodeConnectionError  = "CONNECTION_ERROR"
	CodePrivateKeyError  = "PRIVATE_KEY_ERROR"
	CodeExecError        = "EXEC_ERROR"
	CodeSFTPError        = "SFTP_ERROR"
	CodeReaddirError     = "READDIR_ERROR"
	CodeDownloadError    = "DOWNLOAD_ERROR"
	CodeUploadError      = "UPLOAD_ERROR"
	CodeCancelled        = "CANCELLED"
)

// Success builds a successful response envelope.
func Success(id string, data any) Response {
	return Response{ID: id, Success: true, Data: data}
}

// Failure builds a failed response envelope.
func Failure(id, code, errMsg string, details any) Response {
	return Response{ID: id, Success: false, Code: code, Error: errMsg, Details: details}
}
