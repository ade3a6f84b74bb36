package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/kindmap"
	"github.com/kitops/jkit/usecase/manifest"
)

func newCmdKinds() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "kinds [KIND...]",
		Short:              "Show the kind to file name mapping",
		Long:               "Show the bundled kind to file name mapping merged with the configured override document.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := buildManifestUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := u.Mapping(cmd.Context(), &manifest.MappingInput{Kinds: args})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Entries)
		},
	}
	cmd.AddCommand(newCmdKindsExport())
	return cmd
}

func newCmdKindsExport() *cobra.Command {
	return &cobra.Command{
		Use:                "export",
		Short:              "Print the effective mapping as an override document",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := buildManifestUseCase(cmd)
			if err != nil {
				return err
			}
			out, err := u.Mapping(cmd.Context(), nil)
			if err != nil {
				return err
			}
			m := model.NewKindMapping()
			for _, e := range out.Entries {
				m.Add(e.Kind, e.Aliases...)
			}
			return kindmap.FormatOverrides(cmd.OutOrStdout(), m)
		},
	}
}
