package main

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine/config"
	"github.com/Carmen-Shannon/oxy-terrain/engine/controller"
	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/path"
	"github.com/Carmen-Shannon/oxy-terrain/engine/store"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
)

func addTerrainFlags(cmd *cobra.Command, t *terrainFlags) {
	cmd.Flags().Float64Var(&t.radius, "radius", 1000, "Radius of the terrain bounds")
	cmd.Flags().Float64Var(&t.ground, "ground", 0, "Height of the ground plane")
}

func newViewCommand() *cobra.Command {
	var (
		session string
		terrain terrainFlags
	)
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the viewer on a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(session, terrain)
			if err != nil {
				return err
			}
			return a.run()
		},
	}
	cmd.Flags().StringVar(&session, "session", "default", "Session to load and save")
	addTerrainFlags(cmd, &terrain)
	return cmd
}

func newFlyCommand() *cobra.Command {
	var (
		session string
		wktFile string
		grab    string
		export  string
		loop    bool
		frames  int
		terrain terrainFlags
	)
	cmd := &cobra.Command{
		Use:   "fly",
		Short: "Fly through a session's viewpoints or along a path",
		Long: `Fly through the viewpoints of a session, or along a LINESTRING read from a
WKT file with --path. With --grab every frame is written as a PNG to the given directory.
With --export the fly list is written as YAML instead and no window is opened.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if export != "" {
				return exportFlyList(session, wktFile, export, frames, terrain)
			}

			a, err := newApp(session, terrain)
			if err != nil {
				return err
			}

			params := a.engine.FlyParameters()
			if cmd.Flags().Changed("frames") {
				params.NumFrames = frames
			}
			if cmd.Flags().Changed("loop") {
				params.Loop = loop
			}
			if grab != "" {
				params.Grab = true
				params.ImageSequencePath = grab
			}
			a.engine.SetFlyParameters(params)

			var loaded bool
			if wktFile != "" {
				data, err := os.ReadFile(wktFile)
				if err != nil {
					return fmt.Errorf("failed to read path: %w", err)
				}
				p, err := path.FromWKT(string(data), path.WithName(wktFile))
				if err != nil {
					return err
				}
				loaded = a.controller.FlyPath(p, params)
			} else {
				loaded = a.controller.FlyViewpoints(params)
			}
			if !loaded {
				logger.Warn().Msg("nothing to fly: need at least two distinct viewpoints and two frames")
			} else {
				a.engine.Post(a.controller.StartFlight)
			}
			return a.run()
		},
	}
	cmd.Flags().StringVar(&session, "session", "default", "Session whose viewpoints are flown")
	cmd.Flags().StringVar(&wktFile, "path", "", "WKT LINESTRING file to fly along")
	cmd.Flags().StringVar(&grab, "grab", "", "Directory to write the frame sequence to")
	cmd.Flags().StringVar(&export, "export", "", "Write the fly list as YAML to this file and exit")
	cmd.Flags().BoolVar(&loop, "loop", false, "Restart at the first frame")
	cmd.Flags().IntVar(&frames, "frames", 100, "Number of interpolated frames")
	addTerrainFlags(cmd, &terrain)
	return cmd
}

// exportFlyList builds the fly list of a session, or of a WKT path, without opening a window.
func exportFlyList(session, wktFile, out string, frames int, terrain terrainFlags) error {
	var flyList []*viewpoint.Store
	if wktFile != "" {
		data, err := os.ReadFile(wktFile)
		if err != nil {
			return fmt.Errorf("failed to read path: %w", err)
		}
		p, err := path.FromWKT(string(data))
		if err != nil {
			return err
		}
		bounds := common.Bounds{Center: mgl64.Vec3{0, 0, terrain.ground}, Radius: terrain.radius}
		flyList, err = flythrough.PathFlyList(p.Curve(controller.CurveSamplesPerSegment), frames, config.FlyThrough().PathHeight, bounds)
		if err != nil {
			return err
		}
	} else {
		err := withStore(func(st store.Store) error {
			list, _, err := st.Load(session)
			if err != nil {
				return err
			}
			flyList, err = flythrough.FillFlyList(list.Items, frames)
			return err
		})
		if err != nil {
			return err
		}
	}

	data, err := viewpoint.MarshalList(viewpoint.NewList(flyList...))
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write fly list: %w", err)
	}
	logger.Info().Int("frames", len(flyList)).Str("file", out).Msg("fly list exported")
	return nil
}
