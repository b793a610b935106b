package blocking

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/notargets/goblock/mesh"
)

// VTKKind selects the cells exported to a legacy VTK file
type VTKKind int

const (
	VTKBlocks VTKKind = iota
	VTKFaces
	VTKEdges
)

func (k VTKKind) String() string {
	return [...]string{"block", "face", "edge"}[k]
}

// WriteVTK writes the nodes and the selected cells as a legacy ASCII
// unstructured grid. Classification dimension and id are attached as point
// and cell data. Blocks are written in VTK corner order.
func (b *Blocking) WriteVTK(w io.Writer, kind VTKKind) error {
	var (
		bw      = bufio.NewWriter(w)
		nodeIDs = b.NodeIDs()
		index   = make(map[int]int, len(nodeIDs))
		cells   [][]int
		links   []Link
		etype   mesh.ElementType
	)
	for i, n := range nodeIDs {
		index[n] = i
	}
	switch kind {
	case VTKBlocks:
		etype = mesh.Hex
		for _, r := range b.regions {
			if r == nil {
				continue
			}
			c := make([]int, 8)
			for i, j := range vtkOrder {
				c[i] = index[r.Nodes[j]]
			}
			cells, links = append(cells, c), append(links, r.Link)
		}
	case VTKFaces:
		etype = mesh.Quad
		for _, f := range b.faces {
			if f == nil {
				continue
			}
			c := make([]int, 4)
			for i, n := range f.Nodes {
				c[i] = index[n]
			}
			cells, links = append(cells, c), append(links, f.Link)
		}
	case VTKEdges:
		etype = mesh.Line
		for _, e := range b.edges {
			if e == nil {
				continue
			}
			cells = append(cells, []int{index[e.Nodes[0]], index[e.Nodes[1]]})
			links = append(links, e.Link)
		}
	default:
		return errors.Errorf("unknown vtk export kind %d", int(kind))
	}

	fmt.Fprintf(bw, "# vtk DataFile Version 2.0\n")
	fmt.Fprintf(bw, "block structure %ss\n", kind)
	fmt.Fprintf(bw, "ASCII\nDATASET UNSTRUCTURED_GRID\n")
	fmt.Fprintf(bw, "POINTS %d double\n", len(nodeIDs))
	for _, n := range nodeIDs {
		p := b.nodes[n].Location
		fmt.Fprintf(bw, "%.17g %.17g %.17g\n", p.X, p.Y, p.Z)
	}
	size := 0
	for _, c := range cells {
		size += len(c) + 1
	}
	fmt.Fprintf(bw, "CELLS %d %d\n", len(cells), size)
	for _, c := range cells {
		fmt.Fprintf(bw, "%d", len(c))
		for _, v := range c {
			fmt.Fprintf(bw, " %d", v)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", len(cells))
	for range cells {
		fmt.Fprintf(bw, "%d\n", mesh.VTKCellType(etype))
	}
	fmt.Fprintf(bw, "CELL_DATA %d\n", len(cells))
	writeLinks(bw, links)
	fmt.Fprintf(bw, "POINT_DATA %d\n", len(nodeIDs))
	nodeLinks := make([]Link, len(nodeIDs))
	for i, n := range nodeIDs {
		nodeLinks[i] = b.nodes[n].Link
	}
	writeLinks(bw, nodeLinks)
	return errors.Wrap(bw.Flush(), "writing vtk")
}

func writeLinks(w io.Writer, links []Link) {
	fmt.Fprintf(w, "SCALARS GEOM_DIM int 1\nLOOKUP_TABLE default\n")
	for _, l := range links {
		fmt.Fprintf(w, "%d\n", int(l.Dim))
	}
	fmt.Fprintf(w, "SCALARS GEOM_ID int 1\nLOOKUP_TABLE default\n")
	for _, l := range links {
		fmt.Fprintf(w, "%d\n", l.ID)
	}
}

// WriteVTKFiles writes <prefix>_block.vtk, <prefix>_face.vtk and <prefix>_edge.vtk
func (b *Blocking) WriteVTKFiles(prefix string) (files []string, err error) {
	for _, kind := range []VTKKind{VTKBlocks, VTKFaces, VTKEdges} {
		name := fmt.Sprintf("%s_%s.vtk", prefix, kind)
		if err = b.writeVTKFile(name, kind); err != nil {
			return
		}
		files = append(files, name)
	}
	return
}

func (b *Blocking) writeVTKFile(name string, kind VTKKind) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating vtk file")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "closing vtk file")
		}
	}()
	return b.WriteVTK(f, kind)
}
