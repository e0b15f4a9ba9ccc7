package session

import "fmt"

// Code is a stable machine-readable failure identifier returned to the
// router, mirroring the closed error-code set the wire protocol exposes.
type Code string

const (
	CodeNoConnection    Code = "NO_CONNECTION"
	CodeAuthError       Code = "AUTH_ERROR"
	CodeConnectionError Code = "CONNECTION_ERROR"
	CodePrivateKeyError Code = "PRIVATE_KEY_ERROR"
	CodeExecError       Code = "EXEC_ERROR"
	CodeSFTPError       Code = "SFTP_ERROR"
	CodeReaddirError    Code = "READDIR_ERROR"
	CodeDownloadError   Code = "DOWNLOAD_ERROR"
	CodeUploadError     Code = "UPLOAD_ERROR"
	CodeCancelled       Code = "CANCELLED"
)

// Error wraps a Code with a human-readable message, so callers one layer up
// (the router) can propagate both without string-matching.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
