package cronicle

import "fmt"

// TransportError reports a failure to reach the scheduler: connection
// refused, DNS failure, request timeout, or an open circuit. The caller
// may retry; this client never retries internally.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cronicle: %s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError reports that the scheduler rejected the API key. Fatal to
// the operation; retrying with the same key cannot succeed.
type AuthError struct {
	Op          string
	Description string
}

func (e *AuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("cronicle: %s: api key rejected", e.Op)
	}
	return fmt.Sprintf("cronicle: %s: api key rejected: %s", e.Op, e.Description)
}

// RemoteError reports that the scheduler received the request but
// rejected its content (bad schema, unknown id on delete). Body carries
// the verbatim response payload for diagnostics.
type RemoteError struct {
	Op          string
	StatusCode  int
	Code        string
	Description string
	Body        []byte
}

func (e *RemoteError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("cronicle: %s: remote rejection (code=%s): %s", e.Op, e.Code, e.Description)
	}
	return fmt.Sprintf("cronicle: %s: remote rejection (status=%d): %s", e.Op, e.StatusCode, e.Body)
}
