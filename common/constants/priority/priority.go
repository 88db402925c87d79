package priority

import "fmt"

// Priority of a judge task dispatch. Live submissions are served first,
// bulk rejudges last, so a batch rejudge never starves interactive submits.
type Priority string

const (
	Submit        Priority = "submit"
	RejudgeSingle Priority = "rejudge-single"
	RejudgeBatch  Priority = "rejudge-batch"
)

// brokerPriorities maps each priority onto the broker's numeric priority
// field, where a higher number is served earlier. The table is explicit so
// that comparison semantics never depend on declaration order.
var brokerPriorities = map[Priority]uint8{
	Submit:        9,
	RejudgeSingle: 5,
	RejudgeBatch:  1,
}

// BrokerPriority returns the numeric priority for the message broker.
func (p Priority) BrokerPriority() (uint8, error) {
	value, ok := brokerPriorities[p]
	if !ok {
		return 0, fmt.Errorf("unknown dispatch priority %q", string(p))
	}
	return value, nil
}

// Before reports whether p is served earlier than other.
func (p Priority) Before(other Priority) bool {
	return brokerPriorities[p] > brokerPriorities[other]
}
