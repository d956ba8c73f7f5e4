package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPresetsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List compression presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.catalog()
			if err != nil {
				return err
			}
			presets := catalog.Sorted()
			if asJSON {
				type presetView struct {
					Key         string   `json:"key"`
					Slug        string   `json:"slug"`
					Name        string   `json:"name"`
					Description string   `json:"description"`
					Codec       string   `json:"codec"`
					Engine      string   `json:"engine"`
					UseGPU      bool     `json:"use_gpu"`
					Encoders    []string `json:"gpu_encoders,omitempty"`
				}
				views := make([]presetView, 0, len(presets))
				for _, p := range presets {
					views = append(views, presetView{
						Key:         p.Key,
						Slug:        p.Slug,
						Name:        p.Name,
						Description: p.Description,
						Codec:       string(p.Codec),
						Engine:      string(p.Engine),
						UseGPU:      p.UseGPU,
						Encoders:    p.SupportedEncoders(),
					})
				}
				return writeJSON(cmd, views)
			}

			g := newGrid(textCol("Key"), textCol("Slug"), textCol("Name"), textCol("Codec"), textCol("Engine"), textCol("GPU"), wrapCol("Description", 48))
			for _, p := range presets {
				g.row(p.Key, p.Slug, p.Name, string(p.Codec), string(p.Engine), yesNo(p.UseGPU), p.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout(), g)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
