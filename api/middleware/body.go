package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
)

const maxPeekBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// peekBody reads the request body and puts an identical reader back so the
// handler can decode it again.
func peekBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes+1))
	_ = r.Body.Close()
	if err != nil {
		return nil, err
	}
	if len(body) > maxPeekBytes {
		return nil, errBodyTooLarge
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
