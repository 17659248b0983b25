package cmd

import (
	"fmt"

	"github.com/ThatOtherAndrew/Horologe/internal/draw"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available clock faces",
	Run:   listFaces,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listFaces(cmd *cobra.Command, args []string) {
	fmt.Println("Available faces:")
	for _, name := range draw.FaceNames() {
		marker := " "
		if settings != nil && settings.Face == name {
			marker = "*"
		}
		fmt.Printf(" %s %-8s %s\n", marker, name, draw.FaceDescription(name))
	}
}
