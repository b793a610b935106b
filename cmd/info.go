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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/notargets/goblock/blocking"
	"github.com/notargets/goblock/mesh"
)

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print statistics of a hexahedral block file",
	Long:  `Print the element, face and boundary statistics and the block quality of a Gambit (.neu) or legacy VTK (.vtk) hexahedral file`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var gridFile string
		if gridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			return
		}
		if len(gridFile) == 0 {
			return fmt.Errorf("must supply a block file (-m, --gridFile) in .neu or .vtk format")
		}
		return PrintInfo(os.Stdout, gridFile)
	},
}

func init() {
	rootCmd.AddCommand(InfoCmd)
	InfoCmd.Flags().StringP("gridFile", "m", "", "hexahedral file to read in Gambit (.neu) or VTK (.vtk) format")
}

// PrintInfo writes the statistics of the block file to w
func PrintInfo(w io.Writer, gridFile string) (err error) {
	msh, err := mesh.ReadMeshFile(gridFile)
	if err != nil {
		return
	}
	msh.PrintStatistics(w)
	b, err := blocking.NewFromMesh(nil, msh)
	if err != nil {
		return
	}
	nodes, edges, faces := b.ExtractBoundary()
	fmt.Fprintf(w, "Block Structure:\n")
	fmt.Fprintf(w, "  Nodes: %d, Edges: %d, Faces: %d, Blocks: %d\n",
		b.NumNodes(), b.NumEdges(), b.NumFaces(), b.NumRegions())
	fmt.Fprintf(w, "  Boundary nodes: %d, edges: %d, faces: %d\n", len(nodes), len(edges), len(faces))
	fmt.Fprintf(w, "  Connected: %v\n", b.IsValidConnected())
	sets, err := b.GetAllSheetEdgeSets()
	if err != nil {
		return
	}
	fmt.Fprintf(w, "  Sheets: %d\n", len(sets))
	sj, worst := b.MinScaledJacobian()
	fmt.Fprintf(w, "  Min scaled Jacobian: %8.5f (block %d)\n", sj, worst)
	return
}
