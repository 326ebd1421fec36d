package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMakerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maker",
		Short: "Inspect makers",
	}
	cmd.AddCommand(newMakerListCmd())
	return cmd
}

func newMakerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List makers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd.Context())
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer repo.Close()

			makers, err := repo.Makers(cmd.Context())
			if err != nil {
				return exitError(exitSysError, fmt.Sprintf("list makers: %s", err))
			}

			if flags.jsonMode {
				type makerJSON struct {
					ID       int64  `json:"id"`
					Name     string `json:"name"`
					Location string `json:"location,omitempty"`
				}
				out := make([]makerJSON, 0, len(makers))
				for _, m := range makers {
					out = append(out, makerJSON{ID: m.ID(), Name: m.Name(), Location: m.Location()})
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLOCATION")
			for _, m := range makers {
				fmt.Fprintf(w, "%d\t%s\t%s\n", m.ID(), m.Name(), m.Location())
			}
			return w.Flush()
		},
	}
}
