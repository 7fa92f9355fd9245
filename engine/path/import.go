package path

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// FromWKT builds a path from a LINESTRING in well-known text. Z is optional and
// defaults to 0. Waypoints are named by their index.
//
// Parameters:
//   - wkt: the well-known text geometry
//   - options: additional path options
//
// Returns:
//   - Path: the parsed path
//   - error: an error if the text does not parse or is not a line string
func FromWKT(wkt string, options ...PathBuilderOption) (Path, error) {
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path WKT: %w", err)
	}
	ls, ok := g.AsLineString()
	if !ok {
		return nil, fmt.Errorf("path WKT must be a LINESTRING, got %s", g.Type())
	}

	seq := ls.Coordinates()
	waypoints := make([]Waypoint, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		c := seq.Get(i)
		pos := mgl64.Vec3{c.X, c.Y, 0}
		if c.Type.Is3D() {
			pos[2] = c.Z
		}
		waypoints = append(waypoints, Waypoint{Name: strconv.Itoa(i), Position: pos})
	}
	return NewPath(append([]PathBuilderOption{WithWaypoints(waypoints...)}, options...)...), nil
}

// FromGeographic builds a path from longitude/latitude/elevation triples.
// Positions are projected to web mercator (EPSG:3857) and made relative to origin, itself
// a longitude/latitude/elevation triple, so the path lines up with a scene centered there.
//
// Parameters:
//   - lonLatElev: waypoints as (longitude, latitude, elevation) in degrees and metres
//   - origin: the geographic position of the scene origin
//   - options: additional path options
//
// Returns:
//   - Path: the projected path
func FromGeographic(lonLatElev []mgl64.Vec3, origin mgl64.Vec3, options ...PathBuilderOption) Path {
	project := wgs84.EPSG().Transform(4326, 3857)
	ox, oy, _ := project(origin[0], origin[1], 0)

	waypoints := make([]Waypoint, 0, len(lonLatElev))
	for i, p := range lonLatElev {
		x, y, _ := project(p[0], p[1], 0)
		waypoints = append(waypoints, Waypoint{
			Name:     strconv.Itoa(i),
			Position: mgl64.Vec3{x - ox, y - oy, p[2] - origin[2]},
		})
	}
	return NewPath(append([]PathBuilderOption{WithWaypoints(waypoints...)}, options...)...)
}
