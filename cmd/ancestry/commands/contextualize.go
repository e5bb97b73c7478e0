package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ancestry/internal/core/domain"
)

func (c *CLI) newContextualizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contextualize",
		Short: "Contextualize a single component SBOM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			component, _ := cmd.Flags().GetString("component")
			parent, _ := cmd.Flags().GetString("parent")
			provenance, _ := cmd.Flags().GetString("provenance")
			output, _ := cmd.Flags().GetString("output")
			format, _ := cmd.Flags().GetString("format")

			f, err := domain.ParseFormat(format, domain.FormatSPDX)
			if err != nil {
				return err
			}

			return c.app.Contextualize(cmd.Context(), domain.Job{
				Component:  component,
				Parent:     parent,
				Provenance: provenance,
				Output:     output,
				Format:     f,
			}, runOptions(cmd))
		},
	}

	cmd.Flags().StringP("component", "c", "", "Component image SBOM")
	cmd.Flags().StringP("parent", "p", "", "Parent image SBOM")
	cmd.Flags().String("provenance", "", "Build provenance of the component image")
	cmd.Flags().StringP("output", "o", "", "Where to write the contextualized SBOM")
	cmd.Flags().StringP("format", "f", "spdx", "SBOM format: spdx or cyclonedx")
	_ = cmd.MarkFlagRequired("component")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
