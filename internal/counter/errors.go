package counter

import (
	"errors"
	"fmt"

	"github.com/dgallion1/mdcount/internal/doctree"
)

// ErrImbalancedStructure reports an event stream that is not well nested.
// It indicates a defect in the producer, never bad user input.
var ErrImbalancedStructure = errors.New("imbalanced structure")

// StructureError describes where the event stream stopped nesting.
type StructureError struct {
	Op    string       // "exit" or "finish"
	Want  doctree.Kind // kind the producer tried to close
	Got   doctree.Kind // innermost open kind
	Depth int
}

func (e *StructureError) Error() string {
	if e.Op == "finish" {
		return fmt.Sprintf("%s: %s still open at end of document (depth %d)", ErrImbalancedStructure, e.Got, e.Depth)
	}
	return fmt.Sprintf("%s: %s %s while %s is open (depth %d)", ErrImbalancedStructure, e.Op, e.Want, e.Got, e.Depth)
}

func (e *StructureError) Unwrap() error {
	return ErrImbalancedStructure
}
