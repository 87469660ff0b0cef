package gami

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// actionIDSource mints per-connection-unique ActionID tokens. The
// originals derive IDs from wall-clock time, assuming microsecond
// precision; under load two actions can land in the same microsecond and
// collide. This mints a monotonic counter concatenated with a per-session
// nonce instead, so uniqueness holds for the lifetime of the connection
// without needing monotonic wall-clock resolution.
type actionIDSource struct {
	nonce   string
	counter uint64
}

// newActionIDSource derives a fresh nonce from a random UUID.
func newActionIDSource() *actionIDSource {
	return &actionIDSource{nonce: uuid.New().String()[:8]}
}

// next returns the next ActionID for this source.
func (a *actionIDSource) next() string {
	n := atomic.AddUint64(&a.counter, 1)
	return fmt.Sprintf("%s-%d", a.nonce, n)
}
