// Package idgen generates the short correlation ids the client attaches to
// outgoing requests as X-Request-ID.
package idgen

import (
	"strconv"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// RequestPrefix is prepended to every request id.
const RequestPrefix = "req-"

// alphabet is URL- and header-safe.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters after the prefix.
const Length = 12

// RequestID returns a new request id. It never fails: if the random source
// errors, a time-based id is returned instead so a request is never blocked
// on correlation metadata.
func RequestID() string {
	id, err := nanoid.Generate(alphabet, Length)
	if err != nil {
		return RequestPrefix + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return RequestPrefix + id
}
