package main

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-terrain/common"
	"github.com/Carmen-Shannon/oxy-terrain/engine"
	"github.com/Carmen-Shannon/oxy-terrain/engine/audio"
	"github.com/Carmen-Shannon/oxy-terrain/engine/camera"
	"github.com/Carmen-Shannon/oxy-terrain/engine/capture"
	"github.com/Carmen-Shannon/oxy-terrain/engine/config"
	"github.com/Carmen-Shannon/oxy-terrain/engine/controller"
	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/renderer"
	"github.com/Carmen-Shannon/oxy-terrain/engine/scene"
	"github.com/Carmen-Shannon/oxy-terrain/engine/store"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/Carmen-Shannon/oxy-terrain/engine/window"
	"github.com/go-gl/mathgl/mgl64"
)

// terrainFlags describe the extent of the terrain the field camera looks at.
type terrainFlags struct {
	radius float64
	ground float64
}

// app is a wired viewer: window, renderer, scene, engine and controller.
type app struct {
	engine     engine.Engine
	controller controller.Controller
	store      store.Store
	beeper     *audio.Beeper
	session    string
	params     flythrough.Parameters
}

// newApp opens the session store, loads the named session (an unknown name starts an
// empty list) and builds the viewer around it.
func newApp(session string, terrain terrainFlags) (*app, error) {
	st, err := store.Open(config.Store(), logger)
	if err != nil {
		return nil, err
	}

	list, params, err := st.Load(session)
	if errors.Is(err, store.ErrSessionNotFound) {
		list, params, err = viewpoint.NewList(), config.FlyThrough(), nil
		logger.Info().Str("session", session).Msg("starting a new session")
	}
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	bounds := common.Bounds{Center: mgl64.Vec3{0, 0, terrain.ground}, Radius: terrain.radius}
	start := bounds.Center.Add(mgl64.Vec3{0, -2 * bounds.Radius, bounds.Radius})

	wcfg := config.Window()
	win := window.NewWindow(
		window.WithTitle(wcfg.Title),
		window.WithSize(wcfg.Width, wcfg.Height),
	)
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
	)

	ecfg := config.Engine()
	nodeOpts := []camera.NodeBuilderOption{
		camera.WithLocation(start),
		camera.WithDirection(bounds.Center.Sub(start)),
		camera.WithSceneBounds(bounds),
		camera.WithLogger(logger),
	}
	if ccfg := config.Camera(); ccfg.Animate {
		nodeOpts = append(nodeOpts, camera.WithAnimation(ecfg.TickRate, ccfg.Frequency, ccfg.Damping))
	}
	node := camera.NewNode(nodeOpts...)
	cam := camera.NewCamera(camera.WithNode(node))
	sc := scene.NewScene("field",
		scene.WithCamera(cam),
		scene.WithRenderer(r),
		scene.WithBounds(bounds),
		scene.WithGround(terrain.ground),
	)
	sc.Resize(win.Width(), win.Height())
	picker := camera.NewScreenPicker(cam, sc)
	node.SetPicker(picker)

	eng := engine.NewEngine(sc,
		engine.WithWindow(win, wcfg.Title),
		engine.WithTickRate(float64(ecfg.TickRate)),
		engine.WithProfiling(ecfg.Profile),
		engine.WithFlyParameters(params),
		engine.WithLogger(logger),
		engine.WithGrabber(capture.NewGrabber(
			capture.WithWorkers(ecfg.CaptureWorkers),
			capture.WithLogger(logger),
		)),
	)

	acfg := config.Audio()
	beeper := audio.NewBeeper(audio.WithVolume(acfg.Volume), audio.WithLogger(logger))
	if acfg.Enabled {
		if err := beeper.Init(); err != nil {
			logger.Warn().Err(err).Msg("audio unavailable, beeps are silent")
		}
	}

	ccfg := config.Controller()
	ctrl := controller.NewController(node, picker,
		controller.WithViewpointList(list),
		controller.WithBeeper(beeper),
		controller.WithZoom(ccfg.Zoom),
		controller.WithScrollDirection(ccfg.ScrollDirection),
		controller.WithFrameDriver(eng),
		controller.WithLogger(logger),
		controller.WithPlayerOptions(
			flythrough.WithScheduler(flythrough.NewTickerScheduler(eng.Post)),
			flythrough.WithStatusSink(eng),
			flythrough.WithParameters(params),
		),
	)
	eng.SetController(ctrl)

	return &app{
		engine:     eng,
		controller: ctrl,
		store:      st,
		beeper:     beeper,
		session:    session,
		params:     params,
	}, nil
}

// run blocks until the window closes, then saves the viewpoint list back to the session.
func (a *app) run() error {
	a.engine.Run()
	a.controller.StopFlight()
	a.beeper.Close()

	err := a.store.Save(a.session, a.controller.ViewpointList(), a.engine.FlyParameters())
	if cerr := a.store.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to save session %q: %w", a.session, err)
	}
	logger.Info().Str("session", a.session).Int("viewpoints", a.controller.ViewpointCount()).Msg("session saved")
	return nil
}
