package blocking

import (
	"github.com/pkg/errors"

	"github.com/notargets/goblock/mesh"
)

// Structural errors abort a single operation and leave the block structure
// untouched. Callers match them with errors.Is.
var (
	ErrUnsupportedCut         = errors.New("unsupported blocking cut")
	ErrMalformedInput         = mesh.ErrMalformedInput
	ErrEdgeNotFound           = errors.New("edge not found")
	ErrUnsupportedCurve       = errors.New("unsupported curve topology")
	ErrUnknownDimension       = errors.New("unknown classification dimension")
	ErrClassificationConflict = errors.New("classification error")
	ErrEnumeration            = errors.New("enumeration error")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrUnknownCell            = errors.New("unknown cell")
)
