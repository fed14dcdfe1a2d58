package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var fieldmapCmd = &cobra.Command{
	Use:   "fieldmap",
	Short: "Print the active field-mapping contract as YAML",
	Long: `Fieldmap prints the field map the extract command would use: the built-in
registry schema, or the map named by --fieldmap or the extract.fieldmap
config key. Redirect the output to a file to start a custom map.`,
	RunE: runFieldmap,
}

func runFieldmap(cmd *cobra.Command, args []string) error {
	fm, err := activeFieldmap(cmd)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(fm)
}

func init() {
	fieldmapCmd.Flags().String("fieldmap", "", "YAML field map to print instead of the built-in one")

	rootCmd.AddCommand(fieldmapCmd)
}
