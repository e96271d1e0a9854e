package gizmo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownMode  = errors.New("gizmo: unknown mode")
	ErrUnknownSpace = errors.New("gizmo: unknown space")
)

type Mode int

const (
	ModeTranslate Mode = iota
	ModeRotate
	ModeScale
	modeCount
)

var modeNames = [modeCount]string{"translate", "rotate", "scale"}

func (m Mode) String() string {
	if m < 0 || m >= modeCount {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) valid() bool { return m >= 0 && m < modeCount }

func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

type Space int

const (
	SpaceWorld Space = iota
	SpaceLocal
)

func (s Space) String() string {
	switch s {
	case SpaceWorld:
		return "world"
	case SpaceLocal:
		return "local"
	}
	return fmt.Sprintf("Space(%d)", int(s))
}

func ParseSpace(s string) (Space, error) {
	switch strings.ToLower(s) {
	case "world":
		return SpaceWorld, nil
	case "local":
		return SpaceLocal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpace, s)
}

func (s Space) MarshalText() ([]byte, error) {
	if s != SpaceWorld && s != SpaceLocal {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSpace, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Space) UnmarshalText(text []byte) error {
	parsed, err := ParseSpace(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Axis names a handle. Letters X, Y and Z select world or local axes; combinations select
// planes; E is the screen-space ring and XYZE the free trackball.
type Axis string

const (
	AxisNone Axis = ""
	AxisX    Axis = "X"
	AxisY    Axis = "Y"
	AxisZ    Axis = "Z"
	AxisXY   Axis = "XY"
	AxisYZ   Axis = "YZ"
	AxisXZ   Axis = "XZ"
	AxisXYZ  Axis = "XYZ"
	AxisE    Axis = "E"
	AxisXYZE Axis = "XYZE"

	// helper overlays
	AxisStart Axis = "START"
	AxisEnd   Axis = "END"
	AxisDelta Axis = "DELTA"
	AxisLine  Axis = "AXIS"
)

func (a Axis) Has(letter byte) bool { return strings.IndexByte(string(a), letter) >= 0 }

// Contains reports literal character containment of a single-character name.
func (a Axis) Contains(name Axis) bool {
	return len(name) == 1 && a.Has(name[0])
}

func (a Axis) single() bool { return a == AxisX || a == AxisY || a == AxisZ }

func (a Axis) plane() bool { return a == AxisXY || a == AxisYZ || a == AxisXZ }

// letters returns the X/Y/Z mask carried by the name.
func (a Axis) letters() [3]bool {
	return [3]bool{a.Has('X'), a.Has('Y'), a.Has('Z')}
}
