package main

import (
	"fmt"
	"math"
	"os"

	"github.com/Carmen-Shannon/oxy-terrain/engine/config"
	"github.com/Carmen-Shannon/oxy-terrain/engine/store"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/spf13/cobra"
)

func newViewpointsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewpoints",
		Short: "Manage saved viewpoint sessions",
	}
	cmd.AddCommand(
		newExportCommand(),
		newImportCommand(),
		newListCommand(),
		newDeleteCommand(),
	)
	return cmd
}

func withStore(fn func(st store.Store) error) error {
	st, err := store.Open(config.Store(), logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(st)
}

func newExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <session>",
		Short: "Write a session's viewpoints as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st store.Store) error {
				list, _, err := st.Load(args[0])
				if err != nil {
					return err
				}
				data, err := viewpoint.MarshalList(list)
				if err != nil {
					return err
				}
				if out == "" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				return os.WriteFile(out, data, 0644)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <session> <file.yaml>",
		Short: "Replace a session's viewpoints with a YAML list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read viewpoints: %w", err)
			}
			list, err := viewpoint.UnmarshalList(data)
			if err != nil {
				return err
			}
			return withStore(func(st store.Store) error {
				_, params, err := st.Load(args[0])
				if err != nil {
					params = config.FlyThrough()
				}
				if err := st.Save(args[0], list, params); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d viewpoints into %s\n", list.Len(), args[0])
				return nil
			})
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [session]",
		Short: "List sessions, or the viewpoints of one session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st store.Store) error {
				w := cmd.OutOrStdout()
				if len(args) == 0 {
					names, err := st.Sessions()
					if err != nil {
						return err
					}
					for _, n := range names {
						fmt.Fprintln(w, n)
					}
					return nil
				}

				list, _, err := st.Load(args[0])
				if err != nil {
					return err
				}
				for i, vp := range list.Items {
					fmt.Fprintf(w, "%3d  %-24s  loc %.2f,%.2f,%.2f  az %6.1f  el %5.1f  x%g  %s\n",
						i, vp.Name,
						vp.Location[0], vp.Location[1], vp.Location[2],
						vp.Azimuth()*180/math.Pi, vp.Elevation()*180/math.Pi,
						vp.MagFactor(), vp.Mode)
				}
				return nil
			})
		},
	}
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st store.Store) error {
				return st.Delete(args[0])
			})
		},
	}
}
