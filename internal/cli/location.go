package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

func newLocationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage saved locations",
	}
	cmd.AddCommand(newLocationListCmd())
	cmd.AddCommand(newLocationAddCmd())
	cmd.AddCommand(newLocationRemoveCmd())
	return cmd
}

func newLocationListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd.Context())
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer repo.Close()

			locs, err := repo.Locations(cmd.Context())
			if err != nil {
				return exitError(exitSysError, fmt.Sprintf("list locations: %s", err))
			}

			if flags.jsonMode {
				type locationJSON struct {
					ID        int64   `json:"id"`
					Name      string  `json:"name"`
					Latitude  float64 `json:"latitude"`
					Longitude float64 `json:"longitude"`
				}
				out := make([]locationJSON, 0, len(locs))
				for _, l := range locs {
					out = append(out, locationJSON{ID: l.ID(), Name: l.Name(), Latitude: l.Latitude(), Longitude: l.Longitude()})
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLAT\tLON")
			for _, l := range locs {
				fmt.Fprintf(w, "%d\t%s\t%.5f\t%.5f\n", l.ID(), l.Name(), l.Latitude(), l.Longitude())
			}
			return w.Flush()
		},
	}
}

func newLocationAddCmd() *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Save a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd.Context())
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer repo.Close()

			l := &model.Location{}
			l.SetName(args[0])
			l.SetLatitude(lat)
			l.SetLongitude(lon)

			if err := repo.SaveLocation(cmd.Context(), l); err != nil {
				if errors.Is(err, types.ErrInvalidName) {
					return exitError(exitUserError, fmt.Sprintf("invalid location name %q", args[0]))
				}
				return exitError(exitSysError, fmt.Sprintf("save location: %s", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved location %q (id %d)\n", l.Name(), l.ID())
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude")
	return cmd
}

func newLocationRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a saved location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return exitError(exitUserError, fmt.Sprintf("invalid id %q", args[0]))
			}

			repo, err := openRepo(cmd.Context())
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer repo.Close()

			locs, err := repo.Locations(cmd.Context())
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			for _, l := range locs {
				if l.ID() == id {
					if err := repo.DeleteLocation(cmd.Context(), l); err != nil {
						return exitError(exitSysError, fmt.Sprintf("delete location: %s", err))
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed location %q\n", l.Name())
					return nil
				}
			}
			return exitError(exitUserError, fmt.Sprintf("location %d not found", id))
		},
	}
}
