package blocking

import (
	"fmt"

	"github.com/pkg/errors"
)

// Dim is the dimension of the geometric entity a cell is classified on
type Dim int8

const (
	None Dim = iota
	Point
	Curve
	Surface
	Volume
)

func (d Dim) String() string {
	switch d {
	case None:
		return "None"
	case Point:
		return "Point"
	case Curve:
		return "Curve"
	case Surface:
		return "Surface"
	case Volume:
		return "Volume"
	}
	return fmt.Sprintf("Dim(%d)", int(d))
}

// Topological returns 0 to 3 for points to volumes and 4 for None, so that
// a smaller value is a stronger classification
func (d Dim) Topological() (int, error) {
	switch d {
	case Point, Curve, Surface, Volume:
		return int(d) - 1, nil
	case None:
		return 4, nil
	}
	return 0, errors.Wrapf(ErrUnknownDimension, "%d", int(d))
}

// Link classifies a cell on a geometric entity. The zero value is unlinked.
type Link struct {
	Dim Dim
	ID  int
}

func (l Link) IsNone() bool { return l.Dim == None }

func (l Link) String() string {
	if l.IsNone() {
		return "None"
	}
	return fmt.Sprintf("%s(%d)", l.Dim, l.ID)
}

// Merge returns the classification of a cell obtained by identifying two
// cells. The lower dimension wins and None loses to anything. Two different
// entities of the same dimension cannot be merged.
func Merge(a, b Link) (Link, error) {
	ta, err := a.Dim.Topological()
	if err != nil {
		return Link{}, err
	}
	tb, err := b.Dim.Topological()
	if err != nil {
		return Link{}, err
	}
	switch {
	case a.IsNone():
		return b, nil
	case b.IsNone():
		return a, nil
	case ta < tb:
		return a, nil
	case tb < ta:
		return b, nil
	case a.ID != b.ID:
		return Link{}, errors.Wrapf(ErrClassificationConflict, "%v and %v", a, b)
	}
	return a, nil
}

// Split returns the classifications of the two cells obtained by splitting a
// cell, both inherit the original link
func Split(l Link) (Link, Link) { return l, l }
