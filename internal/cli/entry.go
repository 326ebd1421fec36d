package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cellar/internal/model"
	"github.com/mesh-intelligence/cellar/pkg/cellar"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

func newEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Manage tasting entries",
	}
	cmd.AddCommand(newEntryListCmd())
	cmd.AddCommand(newEntryAddCmd())
	cmd.AddCommand(newEntryShowCmd())
	cmd.AddCommand(newEntryRemoveCmd())
	return cmd
}

// entryJSON is the JSON output shape for an entry.
type entryJSON struct {
	ID       int64   `json:"id"`
	UUID     string  `json:"uuid"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Maker    string  `json:"maker,omitempty"`
	Origin   string  `json:"origin,omitempty"`
	Rating   int64   `json:"rating"`
	Price    float64 `json:"price,omitempty"`
	Date     string  `json:"date,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

func entryToJSON(e *model.Entry) entryJSON {
	out := entryJSON{
		ID:       e.ID(),
		UUID:     e.UUID(),
		Title:    e.Title(),
		Category: e.CategoryName(),
		Maker:    e.Maker(),
		Origin:   e.Origin(),
		Rating:   e.Rating(),
		Price:    e.Price(),
		Notes:    e.Notes(),
	}
	if d := e.Date(); !d.IsZero() {
		out.Date = d.Format("2006-01-02")
	}
	return out
}

func newEntryListCmd() *cobra.Command {
	var categoryID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd.Context())
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer repo.Close()

			entries, err := repo.Entries(cmd.Context(), categoryID)
			if err != nil {
				return exitError(exitSysError, fmt.Sprintf("list entries: %s", err))
			}

			if flags.jsonMode {
				out := make([]entryJSON, 0, len(entries))
				for _, e := range entries {
					out = append(out, entryToJSON(e))
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tMAKER\tRATING")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", e.ID(), e.Title(), e.CategoryName(), e.Maker(), e.Rating())
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int64Var(&categoryID, "category", 0, "restrict to a category id (0 = all)")
	return cmd
}

func newEntryAddCmd() *cobra.Command {
	var (
		category string
		maker    string
		origin   string
		rating   int64
		price    float64
		notes    string
		location string
		date     string
		extras   []string
		flavors  []string
	)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a tasting entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd.Context())
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer repo.Close()

			e := &model.Entry{}
			e.SetTitle(args[0])
			e.SetRating(rating)
			e.SetPrice(price)
			e.SetNotes(notes)
			e.SetLocation(location)
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return exitError(exitUserError, fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", date))
				}
				e.SetDate(d)
			} else {
				e.SetDate(time.Now())
			}

			in := cellar.SaveEntryInput{
				CategoryName:  category,
				Maker:         maker,
				MakerLocation: origin,
			}
			for _, raw := range extras {
				name, value, err := parsePair(raw)
				if err != nil {
					return exitError(exitUserError, err.Error())
				}
				in.Extras = append(in.Extras, cellar.ExtraValue{Name: name, Value: value})
			}
			for _, raw := range flavors {
				name, value, err := parseRatingPair(raw)
				if err != nil {
					return exitError(exitUserError, err.Error())
				}
				in.Flavors = append(in.Flavors, cellar.FlavorValue{Name: name, Value: value})
			}

			if err := repo.SaveEntry(cmd.Context(), e, in); err != nil {
				switch {
				case errors.Is(err, types.ErrInvalidTitle):
					return exitError(exitUserError, fmt.Sprintf("invalid title %q", args[0]))
				case errors.Is(err, types.ErrInvalidName):
					return exitError(exitUserError, "a category name is required (--category)")
				default:
					return exitError(exitSysError, fmt.Sprintf("save entry: %s", err))
				}
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), entryToJSON(e))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry %q (id %d) in %s\n", e.Title(), e.ID(), e.CategoryName())
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category name (created if missing)")
	cmd.Flags().StringVar(&maker, "maker", "", "maker name")
	cmd.Flags().StringVar(&origin, "origin", "", "maker location")
	cmd.Flags().Int64Var(&rating, "rating", 0, "overall rating 0-5")
	cmd.Flags().Float64Var(&price, "price", 0, "price paid")
	cmd.Flags().StringVar(&notes, "notes", "", "tasting notes")
	cmd.Flags().StringVar(&location, "location", "", "where it was tasted")
	cmd.Flags().StringVar(&date, "date", "", "tasting date (YYYY-MM-DD, default today)")
	cmd.Flags().StringArrayVar(&extras, "extra", nil, "extra value as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&flavors, "flavor", nil, "flavor rating as name=0..5 (repeatable)")
	return cmd
}

func newEntryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show an entry with its extras and flavors",
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

			ctx := cmd.Context()
			e, err := repo.Entry(ctx, id)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return exitError(exitUserError, fmt.Sprintf("entry %d not found", id))
				}
				return exitError(exitSysError, err.Error())
			}

			extras, err := repo.EntryExtras(ctx, id)
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			flavors, err := repo.EntryFlavors(ctx, id)
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			photos, err := repo.Photos(ctx, id)
			if err != nil {
				return exitError(exitSysError, err.Error())
			}

			if flags.jsonMode {
				out := struct {
					entryJSON
					Extras  map[string]string `json:"extras,omitempty"`
					Flavors map[string]int64  `json:"flavors,omitempty"`
					Photos  []string          `json:"photos,omitempty"`
				}{entryJSON: entryToJSON(e)}
				if len(extras) > 0 {
					out.Extras = make(map[string]string, len(extras))
					for _, x := range extras {
						out.Extras[x.Name()] = x.Value()
					}
				}
				if len(flavors) > 0 {
					out.Flavors = make(map[string]int64, len(flavors))
					for _, f := range flavors {
						out.Flavors[f.Name()] = f.Value()
					}
				}
				for _, p := range photos {
					out.Photos = append(out.Photos, p.Path())
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s)\n", e.Title(), e.CategoryName())
			if e.Maker() != "" {
				fmt.Fprintf(w, "  maker: %s", e.Maker())
				if e.Origin() != "" {
					fmt.Fprintf(w, " (%s)", e.Origin())
				}
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  rating: %d/5\n", e.Rating())
			if e.Notes() != "" {
				fmt.Fprintf(w, "  notes: %s\n", e.Notes())
			}
			for _, x := range extras {
				fmt.Fprintf(w, "  %s: %s\n", x.Name(), x.Value())
			}
			for _, f := range flavors {
				fmt.Fprintf(w, "  flavor %s: %d/5\n", f.Name(), f.Value())
			}
			for _, p := range photos {
				fmt.Fprintf(w, "  photo: %s\n", p.Path())
			}
			return nil
		},
	}
}

func newEntryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove an entry",
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

			e, err := repo.Entry(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return exitError(exitUserError, fmt.Sprintf("entry %d not found", id))
				}
				return exitError(exitSysError, err.Error())
			}

			if err := repo.DeleteEntry(cmd.Context(), e); err != nil {
				return exitError(exitSysError, fmt.Sprintf("delete entry: %s", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed entry %q\n", e.Title())
			return nil
		},
	}
}
