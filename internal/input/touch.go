package input

import (
	"sort"

	"github.com/praetor-game/praetor/internal/platform"
)

// Touch is one active finger in logical coordinates.
type Touch struct {
	ID             int64
	X, Y           int
	StartX, StartY int
}

func (s *State) toLogical(f platform.Finger) (int, int) {
	return int(f.X * float32(s.width)), int(f.Y * float32(s.height))
}

// TouchStart begins tracking a finger. The first finger also drives the pointer.
func (s *State) TouchStart(f platform.Finger) {
	x, y := s.toLogical(f)
	s.touches[f.FingerID] = Touch{ID: f.FingerID, X: x, Y: y, StartX: x, StartY: y}
	if len(s.touches) == 1 {
		s.mouse.X, s.mouse.Y = x, y
		s.mouse.Left = true
		s.mouse.IsTouch = true
	}
}

// TouchMove updates a tracked finger. Unknown fingers are ignored.
func (s *State) TouchMove(f platform.Finger) {
	t, ok := s.touches[f.FingerID]
	if !ok {
		return
	}
	t.X, t.Y = s.toLogical(f)
	s.touches[f.FingerID] = t
	if len(s.touches) == 1 {
		s.mouse.X, s.mouse.Y = t.X, t.Y
		s.mouse.IsTouch = true
	}
}

// TouchEnd stops tracking a finger.
func (s *State) TouchEnd(f platform.Finger) {
	if _, ok := s.touches[f.FingerID]; !ok {
		return
	}
	delete(s.touches, f.FingerID)
	if len(s.touches) == 0 && s.mouse.IsTouch {
		s.mouse.Left = false
	}
}

// Touches returns the active fingers ordered by id.
func (s *State) Touches() []Touch {
	list := make([]Touch, 0, len(s.touches))
	for _, t := range s.touches {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
