package resolve

import (
	"fmt"
	"strings"

	"github.com/dapperfu/s32pack/pkg/model"
)

// NotFoundError reports that no candidate location held a valid artifact of
// the requested kind. Tried lists every location in the order it was
// attempted, so the caller can print an actionable diagnostic.
type NotFoundError struct {
	Kind  model.ComponentKind
	Tried []string
}

// NewNotFoundError creates a NotFoundError for a kind and its candidate list.
func NewNotFoundError(kind model.ComponentKind, tried []string) *NotFoundError {
	return &NotFoundError{Kind: kind, Tried: tried}
}

func (e *NotFoundError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("no %s artifact found (no candidate locations)", e.Kind)
	}
	return fmt.Sprintf("no %s artifact found; tried: %s", e.Kind, strings.Join(e.Tried, ", "))
}
