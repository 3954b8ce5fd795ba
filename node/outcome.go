package node

import "fmt"

// Outcome describes why a build stopped.
type Outcome uint8

const (
	OutcomeCompleted Outcome = iota
	OutcomeStalled
	OutcomeIterationLimit
	OutcomeDegenerate
)

// String ...
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeStalled:
		return "stalled"
	case OutcomeIterationLimit:
		return "iteration limit"
	case OutcomeDegenerate:
		return "degenerate input"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}
