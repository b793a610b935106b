/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/goblock/InputParameters"
	"github.com/notargets/goblock/blocking"
	"github.com/notargets/goblock/geometry"
	"github.com/notargets/goblock/mesh"
)

type BlockRun struct {
	ParamFile    string
	OutputPrefix string
	Example      bool
}

const exampleFile = `
########################################
Title: "Notched block"
Geometry:
  Polygon: [[0,0], [10,0], [10,5], [5,5], [5,10], [0,10]]
  ZMin: 0
  ZMax: 10
# BlockFile: start.vtk      # hexahedra to start from instead of the bounding box
Tolerance: 0.01
SmoothIterations: 0
Cuts:
  - PointID: 3              # split the sheet closest to model point 3
  - Point: [5, 5, 0]
  - Edge: 8                 # split edge 8's sheet, Param in (0,1) or mid point
    Param: 0.3
RemoveOutside: true         # drop blocks whose centre is outside the solid
ResetClassification: true
########################################
`

// BlockCmd represents the block command
var BlockCmd = &cobra.Command{
	Use:   "block",
	Short: "Build, cut and classify a block structure around an extruded polygon",
	Long: `Build a block structure around an extruded polygon, apply the sheet cuts and
block removals of the parameter file, classify it against the model and write
the blocks, faces and edges as legacy VTK files`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		br := &BlockRun{}
		if br.ParamFile, err = cmd.Flags().GetString("inputParametersFile"); err != nil {
			return
		}
		br.OutputPrefix = viper.GetString("output")
		br.Example, _ = cmd.Flags().GetBool("example")
		if br.Example {
			fmt.Printf("Example File:%s\n", exampleFile)
			return
		}
		ip := processInput(br)
		ip.Print()
		b, err := BuildBlocking(ip)
		if err != nil {
			return
		}
		return Report(b, br.OutputPrefix)
	},
}

func processInput(br *BlockRun) (ip *InputParameters.BlockingParameters) {
	var (
		err error
	)
	if len(br.ParamFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-F, --inputParametersFile)")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(br.ParamFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.BlockingParameters{}
	if err = ip.Parse(data); err != nil {
		fmt.Printf("error: %s: %s\n", br.ParamFile, err.Error())
		os.Exit(1)
	}
	return
}

func init() {
	rootCmd.AddCommand(BlockCmd)
	BlockCmd.Flags().StringP("inputParametersFile", "F", "", "YAML file describing the geometry, cuts and removals")
	BlockCmd.Flags().StringP("output", "o", "blocking", "prefix of the VTK files written")
	BlockCmd.Flags().BoolP("example", "e", false, "print an example parameters file and exit")
	_ = viper.BindPFlag("output", BlockCmd.Flags().Lookup("output"))
}

// BuildBlocking runs the cut, removal and classification pipeline of ip
func BuildBlocking(ip *InputParameters.BlockingParameters) (b *blocking.Blocking, err error) {
	model, err := geometry.NewExtrudedModel(ip.PolygonVertices(), ip.Geometry.ZMin, ip.Geometry.ZMax)
	if err != nil {
		return nil, err
	}
	if ip.BlockFile != "" {
		var msh *mesh.Mesh
		if msh, err = mesh.ReadMeshFile(ip.BlockFile); err != nil {
			return nil, err
		}
		if b, err = blocking.NewFromMesh(model, msh); err != nil {
			return nil, err
		}
	} else {
		b = blocking.NewFromBoundingBox(model)
	}
	glog.Infof("%q: start with %d blocks", ip.Title, b.NumRegions())

	for i, c := range ip.Cuts {
		if err = applyCut(b, c); err != nil {
			return nil, errors.Wrapf(err, "cut %d (%s)", i, c)
		}
		glog.V(1).Infof("cut %d (%s): %d blocks", i, c, b.NumRegions())
	}
	for _, r := range ip.RemoveBlocks {
		if err = b.RemoveBlock(r); err != nil {
			return nil, err
		}
	}
	if ip.RemoveOutside {
		outside := b.BlocksOutside(model.Volume(0))
		for _, r := range outside {
			if err = b.RemoveBlock(r); err != nil {
				return nil, err
			}
		}
		glog.V(1).Infof("removed %d blocks outside the solid", len(outside))
	}

	cl := blocking.NewClassifier(b)
	if ip.Tolerance > 0 {
		cl.Tolerance = ip.Tolerance
	}
	if ip.AlignmentThreshold > 0 {
		cl.AlignmentThreshold = ip.AlignmentThreshold
	}
	if ip.PathWeightThreshold > 0 {
		cl.PathWeightThreshold = ip.PathWeightThreshold
	}
	if ip.ResetClassification {
		cl.ClearClassification()
	}
	rep, err := cl.Classify()
	if err != nil {
		return nil, err
	}
	glog.Infof("captured %d/%d curves, %d/%d surfaces, volume %v",
		rep.CurvesCaptured, rep.NumCurves, rep.SurfacesCaptured, rep.NumSurfaces, rep.VolumeCaptured)
	if err = b.Smooth(ip.SmoothIterations); err != nil {
		return nil, err
	}
	return
}

func applyCut(b *blocking.Blocking, c InputParameters.Cut) error {
	var (
		ci blocking.CutInfo
		ok bool
	)
	switch {
	case c.Edge != nil:
		if c.Param == 0 {
			return b.CutSheet(*c.Edge)
		}
		edge := b.Edge(*c.Edge)
		if edge == nil {
			return errors.Wrapf(blocking.ErrUnknownCell, "edge %d", *c.Edge)
		}
		start := edge.Nodes[0]
		if c.Node != nil {
			start = *c.Node
		}
		return b.CutSheetAt(*c.Edge, start, c.Param)
	case c.PointID != nil:
		ci, ok = b.GetCutInfoForPoint(*c.PointID, b.EdgeIDs())
	default:
		ci, ok = b.GetCutInfo(c.Location(), b.EdgeIDs())
	}
	if !ok {
		return errors.Wrap(blocking.ErrUnsupportedCut, "no edge projects the point inside its span")
	}
	return b.CutSheetAt(ci.Edge, b.Edge(ci.Edge).Nodes[0], ci.Param)
}

// Report prints the classification errors and quality of b and writes its VTK files
func Report(b *blocking.Blocking, prefix string) error {
	ce := blocking.NewClassifier(b).DetectClassificationErrors()
	if ce.Empty() {
		fmt.Printf("classification complete\n")
	} else {
		fmt.Printf("classification errors (score %g):\n%s\n", ce.Score(), ce)
	}
	sj, worst := b.MinScaledJacobian()
	fmt.Printf("%d blocks, min scaled Jacobian %8.5f at block %d\n", b.NumRegions(), sj, worst)
	files, err := b.WriteVTKFiles(prefix)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Printf("wrote %s\n", f)
	}
	return nil
}
