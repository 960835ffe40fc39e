// internal/feed/types.go
package feed

import (
	"time"

	"github.com/tamzrod/harp-expander/internal/harp"
	"github.com/tamzrod/harp-expander/internal/register"
)

// Result is the outcome of one message read from a stream.
type Result struct {
	StreamID string
	At       time.Time
	Index    int // position in the stream, counting rejected frames

	Message harp.Message
	Reading register.Reading

	Err error // non-nil means this message was rejected
}
