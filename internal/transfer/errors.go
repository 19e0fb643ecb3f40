package transfer

import "errors"

var (
	// ErrNotExist is returned by Stat when the remote path is absent.
	ErrNotExist = errors.New("transfer: remote path does not exist")

	// ErrVerifyFailed means the uploaded file's remote size does not match
	// the local size.
	ErrVerifyFailed = errors.New("transfer: uploaded size mismatch")

	// ErrRetryExhausted wraps the last error after the retry budget is spent.
	ErrRetryExhausted = errors.New("transfer: retry attempts exhausted")
)
