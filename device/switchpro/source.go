package switchpro

import (
	"fmt"
	"os"
)

// SourceKind identifies where the initial flash contents come from.
type SourceKind uint8

const (
	// SourceBlank is an erased flash (all 0xFF).
	SourceBlank SourceKind = iota
	// SourceSupplied is a caller provided image, usually a dump of a real controller.
	SourceSupplied
)

func (k SourceKind) String() string {
	switch k {
	case SourceBlank:
		return "blank"
	case SourceSupplied:
		return "supplied"
	default:
		return fmt.Sprintf("SourceKind(%d)", uint8(k))
	}
}

// Source is the initial flash contents passed to New.
type Source struct {
	kind  SourceKind
	image []byte
}

// Blank returns a source for an erased flash.
func Blank() Source { return Source{kind: SourceBlank} }

// Supplied returns a source backed by image. New copies the image.
func Supplied(image []byte) Source { return Source{kind: SourceSupplied, image: image} }

// Kind returns the source kind.
func (s Source) Kind() SourceKind { return s.kind }

// LoadFile reads a flash dump from path.
func LoadFile(path string) (Source, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read flash image %q: %w", path, err)
	}
	return Supplied(b), nil
}

// SaveFile writes the whole flash to path.
func (f *Flash) SaveFile(path string) error {
	if err := os.WriteFile(path, f.data, 0o644); err != nil {
		return fmt.Errorf("write flash image %q: %w", path, err)
	}
	return nil
}

// defaultsPolicy decides which factory defaults New writes for a source kind.
type defaultsPolicy struct {
	forceStickCal bool
	forceIMUCal   bool
}

func (p defaultsPolicy) apply(requested Defaults) Defaults {
	return Defaults{
		StickCal: requested.StickCal || p.forceStickCal,
		IMUCal:   requested.IMUCal || p.forceIMUCal,
	}
}

// sourcePolicies maps each source kind to its defaults policy.
//
// A blank flash has no calibration at all, so both defaults are forced on
// and the caller's flags are ignored. Whether the flags should be honored
// independently for blank flashes is an open question; real controllers
// never ship without calibration, so the forced behavior is kept.
var sourcePolicies = map[SourceKind]defaultsPolicy{
	SourceBlank:    {forceStickCal: true, forceIMUCal: true},
	SourceSupplied: {},
}
