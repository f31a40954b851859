package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/trezcool/hackadmin/apps"
	"github.com/trezcool/hackadmin/core/filter"
	"github.com/trezcool/hackadmin/core/resource"
)

// field is a payload flag. Every flag is read as a string and parsed by set.
type field[P any] struct {
	name  string
	usage string
	set   func(p *P, v string) error
}

func stringField[P any](name, usage string, ptr func(*P) *string) field[P] {
	return field[P]{name: name, usage: usage, set: func(p *P, v string) error {
		*ptr(p) = v
		return nil
	}}
}

func intField[P any](name, usage string, ptr func(*P) *int) field[P] {
	return field[P]{name: name, usage: usage, set: func(p *P, v string) error {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%q is not a number", v)
		}
		*ptr(p) = i
		return nil
	}}
}

func boolField[P any](name, usage string, ptr func(*P) *bool) field[P] {
	return field[P]{name: name, usage: usage, set: func(p *P, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%q is not a boolean", v)
		}
		*ptr(p) = b
		return nil
	}}
}

// resourceCmd builds the list/create/update/delete commands of one entity store.
type resourceCmd[T resource.Item, P any] struct {
	use     string
	aliases []string
	short   string
	store   *resource.Store[T, P]
	columns []column[T]
	search  func(T) []string
	fields  []field[P]

	// parent is the flag naming the parent id; empty for top-level entities.
	parent string
	// from pre-fills an update payload; update is only offered when set and supported.
	from func(T) P
	// prepare runs before create and update.
	prepare func(ctx context.Context) error
	// view post-processes a fetched list (sorting, parent fallback).
	view func(parent string, items []T) []T
}

func (rc *resourceCmd[T, P]) command(cli *commandLine) *cobra.Command {
	cmd := &cobra.Command{
		Use:     rc.use,
		Aliases: rc.aliases,
		Short:   rc.short,
		Args:    cobra.ArbitraryArgs,
		RunE:    groupRun,
	}
	cmd.AddCommand(rc.listCmd(cli), rc.createCmd(cli), rc.deleteCmd(cli))
	if rc.from != nil && rc.store.CanUpdate() {
		cmd.AddCommand(rc.updateCmd(cli))
	}
	return cmd
}

func (rc *resourceCmd[T, P]) parentFlag(cmd *cobra.Command, parentID *string) {
	if rc.parent != "" {
		cmd.Flags().StringVar(parentID, rc.parent, "", rc.parent+" id")
	}
}

func (rc *resourceCmd[T, P]) listCmd(cli *commandLine) *cobra.Command {
	var parentID, term string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + rc.use,
		Args:  cobra.NoArgs,
		RunE: cli.authed(func(cmd *cobra.Command, _ []string) error {
			items, err := rc.store.List(cmd.Context(), parentID)
			if err != nil {
				return err
			}
			if rc.view != nil {
				items = rc.view(parentID, items)
			}
			if rc.search != nil {
				items = filter.Search(items, term, rc.search)
			}
			return printItems(cli, items, rc.columns)
		}),
	}
	rc.parentFlag(cmd, &parentID)
	if rc.search != nil {
		cmd.Flags().StringVarP(&term, "search", "s", "", "case-insensitive search term")
	}
	return cmd
}

func (rc *resourceCmd[T, P]) createCmd(cli *commandLine) *cobra.Command {
	var parentID string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new item in " + rc.use,
		Args:  cobra.NoArgs,
		RunE: cli.authed(func(cmd *cobra.Command, _ []string) error {
			var p P
			if err := rc.apply(cmd, &p, cli.validate); err != nil {
				return err
			}
			if rc.prepare != nil {
				if err := rc.prepare(cmd.Context()); err != nil {
					return err
				}
			}
			item, err := rc.store.Create(cmd.Context(), parentID, p)
			if err != nil {
				return err
			}
			return printItem(cli, item, rc.columns)
		}),
	}
	rc.parentFlag(cmd, &parentID)
	rc.fieldFlags(cmd)
	return cmd
}

func (rc *resourceCmd[T, P]) updateCmd(cli *commandLine) *cobra.Command {
	var parentID string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit an item of " + rc.use + ". Only the given flags change.",
		Args:  cobra.ExactArgs(1),
		RunE: cli.authed(func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if _, err := rc.store.List(cmd.Context(), parentID); err != nil {
				return err
			}
			current, ok := rc.store.Get(id)
			if !ok {
				return apps.NewArgumentError(fmt.Sprintf("%s %q not found", rc.store.Name(), id))
			}
			rc.store.SetCurrentItem(current)
			defer rc.store.ClearCurrentItem()

			if rc.prepare != nil {
				if err := rc.prepare(cmd.Context()); err != nil {
					return err
				}
			}
			p := rc.from(current)
			if err := rc.apply(cmd, &p, cli.validate); err != nil {
				return err
			}
			item, err := rc.store.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			return printItem(cli, item, rc.columns)
		}),
	}
	rc.parentFlag(cmd, &parentID)
	rc.fieldFlags(cmd)
	return cmd
}

func (rc *resourceCmd[T, P]) deleteCmd(cli *commandLine) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an item of " + rc.use,
		Args:  cobra.ExactArgs(1),
		RunE: cli.authed(func(cmd *cobra.Command, args []string) error {
			if err := rc.store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func (rc *resourceCmd[T, P]) fieldFlags(cmd *cobra.Command) {
	for _, f := range rc.fields {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// apply sets the changed flags on p, then validates it.
func (rc *resourceCmd[T, P]) apply(cmd *cobra.Command, p *P, validate *validator.Validate) error {
	for _, f := range rc.fields {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.name)
		if err := f.set(p, v); err != nil {
			return apps.NewArgumentError(fmt.Sprintf("--%s: %v", f.name, err))
		}
	}
	if vp, ok := any(p).(interface {
		Validate(*validator.Validate) error
	}); ok {
		return vp.Validate(validate)
	}
	return nil
}

// groupRun rejects unknown subcommands, cobra only does so for the root command.
func groupRun(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return apps.NewArgumentError(fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath()))
	}
	return cmd.Help()
}
