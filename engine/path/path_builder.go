package path

type PathBuilderOption func(*pathImpl)

// WithName sets the path label.
//
// Parameters:
//   - name: the label
//
// Returns:
//   - PathBuilderOption: a function that sets the name
func WithName(name string) PathBuilderOption {
	return func(p *pathImpl) {
		p.name = name
	}
}

// WithWaypoints sets the initial waypoints.
//
// Parameters:
//   - waypoints: the waypoints in order
//
// Returns:
//   - PathBuilderOption: a function that sets the waypoints
func WithWaypoints(waypoints ...Waypoint) PathBuilderOption {
	return func(p *pathImpl) {
		p.waypoints = append(p.waypoints[:0:0], waypoints...)
	}
}
