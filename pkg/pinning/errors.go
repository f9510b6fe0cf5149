package pinning

import "errors"

// Sentinel errors for pinning operations.
var (
	ErrUploadFailed     = errors.New("pinning: upload failed")
	ErrUnexpectedStatus = errors.New("pinning: unexpected response status")
	ErrDecodeResponse   = errors.New("pinning: failed to decode response")
	ErrAdapterPanic     = errors.New("pinning: adapter panicked")
)
