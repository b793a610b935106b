package mesh

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Gambit element codes
var gambitTypes = map[int]ElementType{
	1: Line,
	2: Quad,
	3: Triangle,
	4: Hex,
	5: Prism,
	6: Tet,
	7: Pyramid,
}

type gambitReader struct {
	scanner *bufio.Scanner
	line    int
	msh     *Mesh
	// Control info
	numnp, nelem, ngrps, nbsets int
}

func (r *gambitReader) next() (fields []string, ok bool) {
	if !r.scanner.Scan() {
		return nil, false
	}
	r.line++
	return strings.Fields(r.scanner.Text()), true
}

func (r *gambitReader) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedInput, "gambit line %d: "+format, append([]interface{}{r.line}, args...)...)
}

// atoi parses field as an integer no smaller than lo
func (r *gambitReader) atoi(what, field string, lo int) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil || n < lo {
		return 0, r.errorf("bad %s %q", what, field)
	}
	return n, nil
}

// ReadGambitNeutral reads a Gambit neutral file (.neu)
func ReadGambitNeutral(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening gambit file")
	}
	defer file.Close()

	r := &gambitReader{scanner: bufio.NewScanner(file), msh: NewMesh()}
	for {
		fields, ok := r.next()
		if !ok {
			break
		}
		header := strings.Join(fields, " ")
		switch {
		case strings.Contains(header, "NUMNP") && strings.Contains(header, "NELEM"):
			err = r.readControl()
		case strings.Contains(header, "NODAL COORDINATES"):
			err = r.readNodes()
		case strings.Contains(header, "ELEMENTS/CELLS"):
			err = r.readElements()
		case strings.Contains(header, "ELEMENT GROUP"):
			err = r.readGroup()
		}
		if err != nil {
			return nil, err
		}
	}
	if err = r.scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading gambit file")
	}
	r.msh.Finalize()
	return r.msh, nil
}

func (r *gambitReader) readControl() error {
	values, ok := r.next()
	if !ok || len(values) < 4 {
		return r.errorf("truncated control info")
	}
	counts := make([]int, 4)
	for i := range counts {
		n, err := r.atoi("control value", values[i], 0)
		if err != nil {
			return err
		}
		counts[i] = n
	}
	r.numnp, r.nelem, r.ngrps, r.nbsets = counts[0], counts[1], counts[2], counts[3]
	return nil
}

func (r *gambitReader) readNodes() error {
	// Counts are not trusted for allocation, vertices grow as ids are read
	r.msh.Vertices = make([][]float64, 0, min(r.numnp, 1<<16))
	for i := 0; i < r.numnp; i++ {
		fields, ok := r.next()
		if !ok {
			return r.errorf("unexpected EOF reading nodes")
		}
		if len(fields) < 4 {
			return r.errorf("node line has %d fields", len(fields))
		}
		// Gambit uses 1-based node IDs
		nodeID, err := strconv.Atoi(fields[0])
		if err != nil || nodeID < 1 || nodeID > r.numnp {
			return r.errorf("bad node id %q", fields[0])
		}
		xyz := make([]float64, 3)
		for j := range xyz {
			if xyz[j], err = strconv.ParseFloat(fields[1+j], 64); err != nil {
				return r.errorf("bad coordinate %q", fields[1+j])
			}
		}
		for len(r.msh.Vertices) < nodeID {
			r.msh.Vertices = append(r.msh.Vertices, nil)
		}
		r.msh.Vertices[nodeID-1] = xyz
	}
	for i, v := range r.msh.Vertices {
		if v == nil {
			return r.errorf("node %d has no coordinates", i+1)
		}
	}
	if len(r.msh.Vertices) != r.numnp {
		return r.errorf("read %d of %d nodes", len(r.msh.Vertices), r.numnp)
	}
	return nil
}

func (r *gambitReader) readElements() error {
	for i := 0; i < r.nelem; i++ {
		fields, ok := r.next()
		if !ok {
			return r.errorf("unexpected EOF reading elements")
		}
		if len(fields) < 3 {
			return r.errorf("element line has %d fields", len(fields))
		}
		code, err := r.atoi("element type", fields[1], 0)
		if err != nil {
			return err
		}
		etype, known := gambitTypes[code]
		if !known {
			return r.errorf("unknown gambit element type %d", code)
		}
		numNodes, err := r.atoi("node count", fields[2], 0)
		if err != nil {
			return err
		}
		if numNodes != etype.NumVertices() {
			return r.errorf("%s element %s has %d nodes", etype, fields[0], numNodes)
		}
		// Long elements continue on the next line
		for len(fields) < 3+numNodes {
			more, ok := r.next()
			if !ok {
				return r.errorf("unexpected EOF in element %s", fields[0])
			}
			fields = append(fields, more...)
		}
		verts := make([]int, numNodes)
		for j := range verts {
			id, err := r.atoi("node reference", fields[3+j], 1)
			if err != nil {
				return err
			}
			verts[j] = id - 1
		}
		if err = r.msh.AddElement(etype, verts, 0); err != nil {
			return errors.Wrapf(err, "gambit line %d", r.line)
		}
	}
	return nil
}

func (r *gambitReader) readGroup() error {
	fields, ok := r.next()
	if !ok {
		return r.errorf("unexpected EOF reading group")
	}
	var (
		groupID, numElems, nflags int
		err                       error
	)
	for i := 0; i+1 < len(fields) && err == nil; i++ {
		switch fields[i] {
		case "GROUP:":
			groupID, err = r.atoi("group id", fields[i+1], 0)
		case "ELEMENTS:":
			numElems, err = r.atoi("group size", fields[i+1], 0)
		case "NFLAGS:":
			nflags, err = r.atoi("group flag count", fields[i+1], 0)
		}
	}
	if err != nil {
		return err
	}
	// Entity name, then the flags line
	if _, ok = r.next(); !ok {
		return r.errorf("missing group name")
	}
	if nflags > 0 {
		if _, ok = r.next(); !ok {
			return r.errorf("missing group flags")
		}
	}
	for read := 0; read < numElems; {
		ids, ok := r.next()
		if !ok {
			return r.errorf("unexpected EOF in group %d", groupID)
		}
		for _, f := range ids {
			elemID, err := strconv.Atoi(f)
			if err != nil || elemID < 1 || elemID > len(r.msh.EtoV) {
				return r.errorf("bad element %q in group %d", f, groupID)
			}
			r.msh.ElementTags[elemID-1] = groupID
			read++
		}
	}
	return nil
}
