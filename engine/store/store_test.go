package store

import (
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-terrain/engine/flythrough"
	"github.com/Carmen-Shannon/oxy-terrain/engine/viewpoint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	s, err := Open(Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "sessions.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleList() *viewpoint.List {
	a := viewpoint.New("ridge", mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 1, 0})
	b := viewpoint.New("valley", mgl64.Vec3{10, 20, 5}, mgl64.Vec3{1, 0, -1})
	b.Mode = viewpoint.ModeHike
	b.SetMagIndex(viewpoint.DefaultMagIndex + 2)
	c := viewpoint.New("summit", mgl64.Vec3{-4, 0, 50}, mgl64.Vec3{0, 0, -1})
	c.Mode = viewpoint.ModeMap
	return viewpoint.NewList(a, b, c)
}

func TestSaveLoadKeepsOrderAndFields(t *testing.T) {
	s := openTestStore(t)
	list := sampleList()
	params := flythrough.DefaultParameters()
	params.NumFrames = 42
	params.Loop = true

	require.NoError(t, s.Save("tour", list, params))

	got, gotParams, err := s.Load("tour")
	require.NoError(t, err)
	assert.Equal(t, params, gotParams)
	require.Equal(t, list.Len(), got.Len())
	assert.Equal(t, []string{"ridge", "valley", "summit"}, got.Names())

	for i := 0; i < list.Len(); i++ {
		want, have := list.At(i), got.At(i)
		assert.Equal(t, want.ID, have.ID)
		assert.Equal(t, want.Location, have.Location)
		assert.InDelta(t, want.Azimuth(), have.Azimuth(), 1e-9)
		assert.InDelta(t, want.Elevation(), have.Elevation(), 1e-9)
		assert.Equal(t, want.MagIndex, have.MagIndex)
		assert.Equal(t, want.Mode, have.Mode)
	}
}

func TestSaveReplacesSession(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save("tour", sampleList(), flythrough.DefaultParameters()))

	short := viewpoint.NewList(viewpoint.New("only", mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}))
	require.NoError(t, s.Save("tour", short, flythrough.DefaultParameters()))

	got, _, err := s.Load("tour")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, got.Names())

	names, err := s.Sessions()
	require.NoError(t, err)
	assert.Equal(t, []string{"tour"}, names)
}

func TestSessionsAndDelete(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save("b", sampleList(), flythrough.DefaultParameters()))
	require.NoError(t, s.Save("a", viewpoint.NewList(), flythrough.DefaultParameters()))

	names, err := s.Sessions()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, s.Delete("b"))
	assert.ErrorIs(t, s.Delete("b"), ErrSessionNotFound)

	_, _, err = s.Load("b")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	empty, _, err := s.Load("a")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestSaveRejectsEmptyName(t *testing.T) {
	s := openTestStore(t)
	assert.ErrorIs(t, s.Save("", sampleList(), flythrough.DefaultParameters()), ErrEmptyName)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mongo"}, zerolog.Nop())
	assert.Error(t, err)
}
