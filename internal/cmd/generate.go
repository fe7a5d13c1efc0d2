package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thetarby/rwsim/internal/manifest"
)

func newGenerateCmd() *cobra.Command {
	var (
		readers, writers, maxDuration int
		seed                          int64
		output                        string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a pseudo-random manifest",
		Long: `Generate a shuffled manifest with the given number of readers and
writers. The same seed always produces the same manifest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Generate(seed, readers, writers, maxDuration)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return manifest.Write(cmd.OutOrStdout(), m)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create manifest file: %w", err)
			}
			if err := manifest.Write(f, m); err != nil {
				f.Close()
				return fmt.Errorf("failed to write manifest: %w", err)
			}
			return f.Close()
		},
	}

	cmd.Flags().IntVarP(&readers, "readers", "r", 5, "number of readers")
	cmd.Flags().IntVarP(&writers, "writers", "w", 5, "number of writers")
	cmd.Flags().IntVarP(&maxDuration, "max-duration", "d", 4, "longest hold in ticks")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 1, "random seed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}
