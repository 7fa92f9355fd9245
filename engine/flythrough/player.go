package flythrough

import (
	"context"
	"sync"

	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// State is the playback state of a Player.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// Poser is the camera the player drives.
type Poser interface {
	Pose() *viewpoint.Store
	SetPose(s *viewpoint.Store, animate, recomputeLookAt bool)
}

// FrameDriver is the render loop the player suspends and drives during a flight.
type FrameDriver interface {
	SuspendMainLoop(suspend bool)
	RequestFrameUpdate()
	EnableFrameCapture(path string)
}

// StatusSink receives playback progress, usually the fly-through dialog or the log.
type StatusSink interface {
	Status(msg string)
	Stopped()
}

type playerImpl struct {
	mu *sync.Mutex

	poser     Poser
	driver    FrameDriver
	sink      StatusSink
	scheduler Scheduler
	logger    zerolog.Logger
	metrics   *playerMetrics

	params  Parameters
	flyList []*viewpoint.Store
	index   int
	state   State
	saved   *viewpoint.Store
}

// Player plays a fly list: Stopped -> Playing <-> Paused -> Stopped.
// While playing the main loop is suspended so interactive control cannot fight the flight.
type Player interface {
	// Start begins playback from the first frame when stopped, or resumes at the current
	// frame when paused. It does nothing while playing or when the fly list is empty.
	Start()

	// Stop cancels playback, resets the frame index, disables capture, resumes the main loop
	// and restores the pose the camera had before the flight. It does nothing when stopped.
	Stop()

	// Pause cancels the scheduler and keeps the frame index and the current pose.
	Pause()

	// State returns the current playback state.
	State() State

	// Index returns the index of the next frame to play.
	Index() int

	// FlyList returns the frames being played.
	FlyList() []*viewpoint.Store

	// SetFlyList replaces the frames. Playback in progress is stopped first.
	//
	// Parameters:
	//   - list: the new fly list
	SetFlyList(list []*viewpoint.Store)

	// Parameters returns the playback parameters.
	Parameters() Parameters

	// SetParameters replaces the playback parameters. Takes effect on the next Start.
	//
	// Parameters:
	//   - p: the new parameters
	SetParameters(p Parameters)
}

var _ Player = &playerImpl{}

// NewPlayer creates a stopped Player driving poser and driver.
// Panics if poser or driver is nil.
//
// Parameters:
//   - poser: the camera to move
//   - driver: the render loop to suspend and drive
//   - options: optional configuration
//
// Returns:
//   - Player: the new player
func NewPlayer(poser Poser, driver FrameDriver, options ...PlayerBuilderOption) Player {
	if poser == nil {
		panic("flythrough: poser cannot be nil")
	}
	if driver == nil {
		panic("flythrough: frame driver cannot be nil")
	}
	p := &playerImpl{
		mu:     &sync.Mutex{},
		poser:  poser,
		driver: driver,
		logger: zerolog.Nop(),
		params: DefaultParameters(),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.scheduler == nil {
		p.scheduler = NewTickerScheduler(nil)
	}
	if p.sink == nil {
		p.sink = logSink{logger: p.logger}
	}
	p.metrics = newPlayerMetrics(p.logger)
	return p
}

func (p *playerImpl) Start() {
	p.mu.Lock()
	if p.state == Playing || len(p.flyList) == 0 {
		p.mu.Unlock()
		return
	}
	resume := p.state == Paused
	params := p.params
	interval := params.Interval()
	frames := len(p.flyList)
	p.state = Playing
	if !resume {
		p.index = 0
	}
	p.mu.Unlock()

	if !resume {
		if params.Grab {
			p.driver.EnableFrameCapture(params.ImageSequencePath)
		}
		p.driver.SuspendMainLoop(true)
		saved := p.poser.Pose()
		p.mu.Lock()
		p.saved = saved
		p.mu.Unlock()
	}
	p.logger.Debug().
		Bool("resume", resume).
		Int("frames", frames).
		Dur("interval", interval).
		Msg("fly-through started")
	p.scheduler.Schedule(interval, p.tick)
}

func (p *playerImpl) tick() {
	p.mu.Lock()
	if p.state != Playing || p.index >= len(p.flyList) {
		p.mu.Unlock()
		return
	}
	i := p.index
	frame := p.flyList[i]
	interval := p.params.Interval()
	loop := p.params.Loop
	p.index++
	finished := p.index >= len(p.flyList)
	if finished && loop {
		p.index = 0
	}
	p.mu.Unlock()

	p.poser.SetPose(frame, true, false)
	p.driver.RequestFrameUpdate()
	p.sink.Status(FormatStatus(i, interval))
	p.metrics.frames.Add(context.Background(), 1)

	if finished {
		p.metrics.flights.Add(context.Background(), 1, metric.WithAttributes(attribute.Bool("loop", loop)))
		if !loop {
			p.Stop()
		}
	}
}

func (p *playerImpl) Stop() {
	p.mu.Lock()
	if p.state == Stopped {
		p.mu.Unlock()
		return
	}
	p.state = Stopped
	p.index = 0
	saved := p.saved
	p.saved = nil
	p.mu.Unlock()

	p.scheduler.Cancel()
	p.driver.EnableFrameCapture("")
	p.driver.SuspendMainLoop(false)
	if saved != nil {
		p.poser.SetPose(saved, true, false)
	}
	p.sink.Stopped()
	p.logger.Debug().Msg("fly-through stopped")
}

func (p *playerImpl) Pause() {
	p.mu.Lock()
	if p.state != Playing {
		p.mu.Unlock()
		return
	}
	p.state = Paused
	p.mu.Unlock()

	p.scheduler.Cancel()
	p.logger.Debug().Int("index", p.Index()).Msg("fly-through paused")
}

func (p *playerImpl) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *playerImpl) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.index
}

func (p *playerImpl) FlyList() []*viewpoint.Store {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flyList
}

func (p *playerImpl) SetFlyList(list []*viewpoint.Store) {
	p.Stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flyList = list
	p.index = 0
}

func (p *playerImpl) Parameters() Parameters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

func (p *playerImpl) SetParameters(params Parameters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params = params
}

// logSink writes playback progress to the logger when no dialog is attached.
type logSink struct {
	logger zerolog.Logger
}

func (s logSink) Status(msg string) {
	s.logger.Debug().Msg(msg)
}

func (s logSink) Stopped() {
	s.logger.Info().Msg("fly-through finished")
}
