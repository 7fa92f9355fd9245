// Command oxy-terrain is a terrain viewer with a field camera, a saved viewpoint list and
// fly-throughs along viewpoints or paths.
//
// Controls:
//
//	Left drag    - Pan along the terrain, flick to coast
//	Middle drag  - Pan in the screen plane
//	Right drag   - Orbit the look-at point
//	Scroll       - Dolly, or magnify with Z
//	Arrows       - Turn one degree, Shift/Ctrl to move one pixel
//	A / N / P    - Add, next and previous viewpoint
//	F            - Fly through the viewpoints
//	Space / S    - Pause or resume, stop
//	Esc          - Quit
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-terrain/engine/config"
	"github.com/Carmen-Shannon/oxy-terrain/engine/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logger     = zerolog.Nop()
	logCloser  io.Closer
)

func main() {
	root := &cobra.Command{
		Use:   "oxy-terrain",
		Short: "Terrain viewer with viewpoints and fly-throughs",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(configPath); err != nil {
				return err
			}
			l, closer, err := logging.New(config.Logging())
			if err != nil {
				return err
			}
			logger, logCloser = l, closer
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				_ = logCloser.Close()
			}
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./oxy-terrain.{yaml,json,toml})")

	root.AddCommand(newViewCommand(), newFlyCommand(), newViewpointsCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
