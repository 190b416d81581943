package extract

import (
	"fmt"
	"strings"

	"github.com/dapperfu/s32pack/pkg/model"
)

// IncompleteError is returned when a component is missing paths its
// packaging contract requires. The destination is left untouched.
type IncompleteError struct {
	Kind    model.ComponentKind
	Missing []string
}

// Error implements the error interface for IncompleteError.
func (e *IncompleteError) Error() string {
	return fmt.Sprintf("extraction incomplete for %s: missing %s", e.Kind, strings.Join(e.Missing, ", "))
}

// NewIncompleteError creates a new IncompleteError.
func NewIncompleteError(kind model.ComponentKind, missing []string) error {
	return &IncompleteError{Kind: kind, Missing: missing}
}
