package elevation

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/Paskordnikk/Strekoza/internal/geo"
)

// VoidM is the SRTM void sentinel. Lookups over missing tiles or void cells
// report it so the reconciler can fill them.
const VoidM = -32768.0

const (
	srtm3Rows     = 1201
	srtm3TileSize = srtm3Rows * srtm3Rows * 2
)

// Source answers raw elevation lookups for a batch of coordinates. The
// returned slice is positionally aligned with points; invalid readings are
// negative, reconciliation is the caller's job.
type Source interface {
	Lookup(ctx context.Context, points []geo.Point) ([]float64, error)
}

// SRTMStore reads SRTM3 .hgt tiles (1201x1201 big-endian int16) from a local
// directory and keeps loaded tiles in memory.
type SRTMStore struct {
	dir string

	mu    sync.Mutex
	tiles map[string][]byte // nil entry marks a known-missing tile
}

func NewSRTMStore(dir string) *SRTMStore {
	return &SRTMStore{dir: dir, tiles: map[string][]byte{}}
}

func (s *SRTMStore) Lookup(ctx context.Context, points []geo.Point) ([]float64, error) {
	out := make([]float64, len(points))
	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = s.elevationAt(p.Lat, p.Lng)
	}
	return out, nil
}

func (s *SRTMStore) elevationAt(lat, lng float64) float64 {
	tile := s.tile(tileName(lat, lng))
	if tile == nil {
		return VoidM
	}

	latBase := math.Floor(lat)
	lngBase := math.Floor(lng)
	// Tile rows run north to south.
	row := srtm3Rows - 1 - int(math.Round((lat-latBase)*(srtm3Rows-1)))
	col := int(math.Round((lng - lngBase) * (srtm3Rows - 1)))
	if row < 0 {
		row = 0
	}
	if col > srtm3Rows-1 {
		col = srtm3Rows - 1
	}

	v := int16(binary.BigEndian.Uint16(tile[(row*srtm3Rows+col)*2:]))
	return float64(v)
}

func (s *SRTMStore) tile(name string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data, ok := s.tiles[name]; ok {
		return data
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil || len(data) != srtm3TileSize {
		data = nil
	}
	s.tiles[name] = data
	return data
}

// tileName builds the .hgt file name covering the coordinate, e.g. N55E037.hgt.
func tileName(lat, lng float64) string {
	latBase := int(math.Floor(lat))
	lngBase := int(math.Floor(lng))

	ns, latAbs := "N", latBase
	if latBase < 0 {
		ns, latAbs = "S", -latBase
	}
	ew, lngAbs := "E", lngBase
	if lngBase < 0 {
		ew, lngAbs = "W", -lngBase
	}
	return fmt.Sprintf("%s%02d%s%03d.hgt", ns, latAbs, ew, lngAbs)
}
