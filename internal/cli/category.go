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

func newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage drink categories",
	}
	cmd.AddCommand(newCategoryListCmd())
	cmd.AddCommand(newCategoryAddCmd())
	cmd.AddCommand(newCategoryRemoveCmd())
	cmd.AddCommand(newCategoryShowCmd())
	return cmd
}

// categoryJSON is the JSON output shape for a category.
type categoryJSON struct {
	ID         int64  `json:"id"`
	UUID       string `json:"uuid"`
	Name       string `json:"name"`
	IsPreset   bool   `json:"is_preset"`
	EntryCount int64  `json:"entry_count"`
}

func categoryToJSON(c *model.Category) categoryJSON {
	return categoryJSON{
		ID:         c.ID(),
		UUID:       c.UUID(),
		Name:       c.Name(),
		IsPreset:   c.IsPreset(),
		EntryCount: c.EntryCount(),
	}
}

func newCategoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd.Context())
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer repo.Close()

			cats, err := repo.Categories(cmd.Context())
			if err != nil {
				return exitError(exitSysError, fmt.Sprintf("list categories: %s", err))
			}

			if flags.jsonMode {
				out := make([]categoryJSON, 0, len(cats))
				for _, c := range cats {
					out = append(out, categoryToJSON(c))
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tENTRIES\tPRESET")
			for _, c := range cats {
				fmt.Fprintf(w, "%d\t%s\t%d\t%v\n", c.ID(), c.Name(), c.EntryCount(), c.IsPreset())
			}
			return w.Flush()
		},
	}
}

func newCategoryAddCmd() *cobra.Command {
	var extras []string
	var flavors []string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepo(cmd.Context())
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			defer repo.Close()

			c := &model.Category{}
			c.SetName(args[0])

			var defs []*model.Extra
			if extras != nil {
				defs = make([]*model.Extra, 0, len(extras))
				for _, name := range extras {
					x := &model.Extra{}
					x.SetName(name)
					defs = append(defs, x)
				}
			}

			if err := repo.SaveCategory(cmd.Context(), c, defs, flavors); err != nil {
				if errors.Is(err, types.ErrInvalidName) {
					return exitError(exitUserError, fmt.Sprintf("invalid category name %q", args[0]))
				}
				return exitError(exitSysError, fmt.Sprintf("save category: %s", err))
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), categoryToJSON(c))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %q (id %d)\n", c.Name(), c.ID())
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&extras, "extra", nil, "extra field definition (repeatable)")
	cmd.Flags().StringArrayVar(&flavors, "flavor", nil, "flavor name (repeatable)")
	return cmd
}

func newCategoryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Remove a category and its entries",
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

			c, err := repo.Category(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return exitError(exitUserError, fmt.Sprintf("category %d not found", id))
				}
				return exitError(exitSysError, err.Error())
			}

			if err := repo.DeleteCategory(cmd.Context(), c); err != nil {
				if errors.Is(err, types.ErrPreset) {
					return exitError(exitUserError, "preset categories cannot be removed")
				}
				return exitError(exitSysError, fmt.Sprintf("delete category: %s", err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed category %q\n", c.Name())
			return nil
		},
	}
}

func newCategoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a category with its extras and flavors",
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
			c, err := repo.Category(ctx, id)
			if err != nil {
				if errors.Is(err, types.ErrNotFound) {
					return exitError(exitUserError, fmt.Sprintf("category %d not found", id))
				}
				return exitError(exitSysError, err.Error())
			}

			extras, err := repo.CategoryExtras(ctx, id)
			if err != nil {
				return exitError(exitSysError, err.Error())
			}
			flavors, err := repo.CategoryFlavors(ctx, id)
			if err != nil {
				return exitError(exitSysError, err.Error())
			}

			if flags.jsonMode {
				out := struct {
					categoryJSON
					Extras  []string `json:"extras"`
					Flavors []string `json:"flavors"`
				}{categoryJSON: categoryToJSON(c)}
				for _, x := range extras {
					out.Extras = append(out.Extras, x.Name())
				}
				for _, f := range flavors {
					out.Flavors = append(out.Flavors, f.Name())
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (id %d, %d entries)\n", c.Name(), c.ID(), c.EntryCount())
			for _, x := range extras {
				fmt.Fprintf(w, "  extra: %s\n", x.Name())
			}
			for _, f := range flavors {
				fmt.Fprintf(w, "  flavor: %s\n", f.Name())
			}
			return nil
		},
	}
}
