package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordbridge/internal/concept"
	"github.com/abhisek/wordbridge/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a vocabulary pack (.json, .csv or .xlsx)",
	Long: "Import scores every word of a pack and stores it. CSV and XLSX packs carry no\n" +
		"header, so --name, --version and --source describe them.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		version, _ := cmd.Flags().GetString("version")
		source, _ := cmd.Flags().GetString("source")
		force, _ := cmd.Flags().GetBool("force")

		pack, err := importer.ReadFile(args[0], importer.Meta{
			Name:    name,
			Version: version,
			Source:  concept.Source(source),
		})
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		im := &importer.Importer{
			Concepts: e.store.Concepts(),
			Packs:    e.store.Packs(),
			Logger:   e.logger.Named("importer"),
		}
		res, err := im.Import(cmd.Context(), pack, force)
		if errors.Is(err, importer.ErrPackUpToDate) {
			fmt.Fprintln(cmd.OutOrStdout(), err)
			fmt.Fprintln(cmd.OutOrStdout(), "Use --force to import it again.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s %s: %d clear, %d fuzzy concepts\n",
			res.Pack, res.Version, res.Clear, res.Fuzzy)
		return nil
	},
}

func init() {
	importCmd.Flags().String("name", "", "Pack name (CSV/XLSX)")
	importCmd.Flags().String("version", "v1.0.0", "Pack semantic version (CSV/XLSX)")
	importCmd.Flags().String("source", string(concept.Oxford3000), "Word list the pack belongs to (CSV/XLSX)")
	importCmd.Flags().Bool("force", false, "Import even if the same or a newer version is stored")
}
