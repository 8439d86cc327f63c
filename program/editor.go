package program

import (
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

// Field names accepted by Editor.UpdateField.
const (
	FieldStatus           = "status"
	FieldMeetingType      = "meetingType"
	FieldDate             = "date"
	FieldTime             = "time"
	FieldLocation         = "location"
	FieldPresider         = "presider"
	FieldOpeningPrayer    = "openingPrayer"
	FieldSpiritualThought = "spiritualThought"
	FieldClosingPrayer    = "closingPrayer"
)

// HymnSlot selects which hymn a hymn update targets.
type HymnSlot string

const (
	HymnOpening HymnSlot = "opening"
	HymnClosing HymnSlot = "closing"
)

// Hymn field names accepted by Editor.UpdateHymn.
const (
	HymnFieldNumber = "number"
	HymnFieldTitle  = "title"
)

// ErrLastPoint is returned when removing the sole remaining point.
// This is a normal, recoverable user action, not an internal failure.
var ErrLastPoint = errors.New("el programa debe tener al menos un punto", errors.CategoryValidation).
	WithTextCode("LAST_POINT")

// Editor owns the single mutable Program for a session. Handlers run
// concurrently, so access is mutex-guarded; every mutation replaces the
// held value with a freshly built one.
type Editor struct {
	mu      sync.RWMutex
	current Program
}

// NewEditor creates an editor seeded with the given program.
func NewEditor(initial Program) *Editor {
	return &Editor{current: initial.Clone()}
}

// Snapshot returns a deep copy of the current program.
func (e *Editor) Snapshot() Program {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current.Clone()
}

// Replace swaps in an externally supplied program wholesale. Local
// edits in flight lose to the new value (last-writer-wins at Program
// granularity).
func (e *Editor) Replace(p Program) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = p.Clone()
}

// Reset discards the session program and starts over from defaults.
func (e *Editor) Reset(now time.Time) Program {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = Default(now)
	return e.current.Clone()
}

// UpdateField replaces exactly one scalar field.
func (e *Editor) UpdateField(field, value string) (Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.current.Clone()
	switch field {
	case FieldStatus:
		next.Status = Status(value)
	case FieldMeetingType:
		next.MeetingType = MeetingType(value)
	case FieldDate:
		next.Date = value
	case FieldTime:
		next.Time = value
	case FieldLocation:
		next.Location = value
	case FieldPresider:
		next.Presider = value
	case FieldOpeningPrayer:
		next.OpeningPrayer = value
	case FieldSpiritualThought:
		next.SpiritualThought = value
	case FieldClosingPrayer:
		next.ClosingPrayer = value
	default:
		return Program{}, errors.New(fmt.Sprintf("unknown program field %q", field), errors.CategoryValidation).
			WithTextCode("UNKNOWN_FIELD")
	}

	e.current = next
	return next.Clone(), nil
}

// UpdateHymn replaces one field within the opening or closing hymn.
func (e *Editor) UpdateHymn(slot HymnSlot, field, value string) (Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.current.Clone()
	var hymn *Hymn
	switch slot {
	case HymnOpening:
		hymn = &next.OpeningHymn
	case HymnClosing:
		hymn = &next.ClosingHymn
	default:
		return Program{}, errors.New(fmt.Sprintf("unknown hymn slot %q", slot), errors.CategoryValidation).
			WithTextCode("UNKNOWN_HYMN_SLOT")
	}

	switch field {
	case HymnFieldNumber:
		hymn.Number = value
	case HymnFieldTitle:
		hymn.Title = value
	default:
		return Program{}, errors.New(fmt.Sprintf("unknown hymn field %q", field), errors.CategoryValidation).
			WithTextCode("UNKNOWN_HYMN_FIELD")
	}

	e.current = next
	return next.Clone(), nil
}

// AddPoint appends a new empty point with a fresh unique id.
func (e *Editor) AddPoint() (Program, Point, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	point := Point{ID: NewID()}
	next := e.current.Clone()
	next.Points = append(next.Points, point)

	e.current = next
	return next.Clone(), point, nil
}

// UpdatePoint merges a partial update into the point matching id. A
// missing id is a no-op; the returned program is unchanged.
func (e *Editor) UpdatePoint(id string, update PointUpdate) (Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.current.Clone()
	for i := range next.Points {
		if next.Points[i].ID != id {
			continue
		}
		if update.Title != nil {
			next.Points[i].Title = *update.Title
		}
		if update.Responsible != nil {
			next.Points[i].Responsible = *update.Responsible
		}
		if update.Observation != nil {
			next.Points[i].Observation = *update.Observation
		}
		e.current = next
		break
	}
	return e.current.Clone(), nil
}

// RemovePoint removes the point matching id. Removing the last
// remaining point is rejected and the program is left unchanged.
func (e *Editor) RemovePoint(id string) (Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.current.Points) <= 1 {
		return e.current.Clone(), ErrLastPoint
	}

	next := e.current.Clone()
	points := next.Points[:0]
	for _, point := range next.Points {
		if point.ID != id {
			points = append(points, point)
		}
	}
	next.Points = points

	e.current = next
	return next.Clone(), nil
}
