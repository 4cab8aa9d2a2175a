package monthly

import (
	"fmt"
	"sync/atomic"
)

// sequence mints zero-padded ids from a run-wide counter. Transaction and
// refund ids keep counting across months, so ids never collide between
// months even though the prefix changes.
type sequence struct {
	current int64 // atomic counter
	padding int
}

func newSequence(padding int) *sequence {
	return &sequence{padding: padding}
}

// next returns prefix followed by the next padded counter value.
func (s *sequence) next(prefix string) string {
	n := atomic.AddInt64(&s.current, 1)
	return fmt.Sprintf("%s%0*d", prefix, s.padding, n)
}

// count returns how many ids have been minted.
func (s *sequence) count() int64 {
	return atomic.LoadInt64(&s.current)
}
