package program

import (
	"time"

	"github.com/google/uuid"
)

// Status marks a program as draft or final. Either value is reachable
// from the other; there is no transition restriction.
type Status string

const (
	StatusDraft Status = "borrador"
	StatusFinal Status = "final"
)

// MeetingType identifies one of the fixed meeting categories.
type MeetingType string

const (
	MeetingWardCouncil      MeetingType = "consejo-barrio"
	MeetingBishopricCouncil MeetingType = "consejo-obispado"
	MeetingLeadership       MeetingType = "reunion-lideres"
	MeetingActivity         MeetingType = "actividad"
)

// meetingTypeLabels maps meeting types to their display labels.
var meetingTypeLabels = map[MeetingType]string{
	MeetingWardCouncil:      "Consejo de Barrio",
	MeetingBishopricCouncil: "Consejo de Obispado",
	MeetingLeadership:       "Reunión de Líderes",
	MeetingActivity:         "Actividad",
}

// MeetingTypes returns the fixed category set in display order.
func MeetingTypes() []MeetingType {
	return []MeetingType{
		MeetingWardCouncil,
		MeetingBishopricCouncil,
		MeetingLeadership,
		MeetingActivity,
	}
}

// Label resolves the display label for a meeting type. Unknown values
// fall back to the raw stored value so future categories round-trip.
func (m MeetingType) Label() string {
	if label, ok := meetingTypeLabels[m]; ok {
		return label
	}
	return string(m)
}

// Hymn is an optional hymn reference. Number and Title are independent;
// either may be empty.
type Hymn struct {
	Number string `json:"number"`
	Title  string `json:"title"`
}

// Empty reports whether both fields are blank.
func (h Hymn) Empty() bool {
	return h.Number == "" && h.Title == ""
}

// Point is one agenda item. It is owned by its Program and identified
// by a unique ID that stays stable across edits.
type Point struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Responsible string `json:"responsible"`
	Observation string `json:"observation"`
}

// PointUpdate carries a partial update for a Point. Nil fields are left
// untouched.
type PointUpdate struct {
	Title       *string `json:"title,omitempty"`
	Responsible *string `json:"responsible,omitempty"`
	Observation *string `json:"observation,omitempty"`
}

// Program is the single meeting-agenda record being edited and
// exported. It is a pure value type: every mutation builds a new value.
//
// Date is stored as "yyyy-mm-dd" and Time as 24-hour "HH:MM"; both may
// be empty. Empty strings are valid for every other field as well;
// "required" markings are a UI affordance, not a model constraint.
type Program struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Status    Status    `json:"status"`

	MeetingType MeetingType `json:"meetingType"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Location    string      `json:"location"`
	Presider    string      `json:"presider"`

	OpeningPrayer    string `json:"openingPrayer"`
	OpeningHymn      Hymn   `json:"openingHymn"`
	SpiritualThought string `json:"spiritualThought"`

	Points []Point `json:"points"`

	ClosingHymn   Hymn   `json:"closingHymn"`
	ClosingPrayer string `json:"closingPrayer"`
}

// Default builds the session program: today's date, the fixed default
// time, one empty point, draft status.
func Default(now time.Time) Program {
	return Program{
		ID:          NewID(),
		CreatedAt:   now,
		Status:      StatusDraft,
		MeetingType: MeetingWardCouncil,
		Date:        now.Format("2006-01-02"),
		Time:        "19:00",
		Location:    "Capilla del Barrio",
		Points:      []Point{{ID: NewID()}},
	}
}

// NewID returns an opaque identifier. IDs are unique within their scope
// and never reused after deletion.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of the program.
func (p Program) Clone() Program {
	out := p
	out.Points = append([]Point(nil), p.Points...)
	return out
}
