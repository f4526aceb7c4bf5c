package geo

import (
	"testing"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	require.Equal(t, 5.0, Distance(Coord{0, 0}, Coord{3, 4}))
	require.Equal(t, 0.0, Distance(Coord{1, 1}, Coord{1, 1}))
}

func TestCoordArrayLength(t *testing.T) {
	line := CoordArray{{0, 0}, {3, 4}, {3, 10}}
	require.InDelta(t, 11.0, line.Length(), 1e-9)
}

func TestProjectorMatchesGroundDistance(t *testing.T) {
	// two points ~1km apart near London
	a := orb.Point{-0.1276, 51.5072}
	b := orb.Point{-0.1130, 51.5120}
	proj := NewProjector(51.5)

	planar := Distance(proj.Project(a[0], a[1]), proj.Project(b[0], b[1]))
	ground := orbgeo.Distance(a, b)
	require.InEpsilon(t, ground, planar, 0.01)
}
