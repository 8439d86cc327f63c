package preview

import (
	"github.com/agendacreate/agenda/program"
)

// Document is the display projection of a Program: every value is a
// final display string, so the template (and any other consumer) never
// touches the model. Projection is pure and never mutates the program.
type Document struct {
	Title    string
	DateText string
	TimeText string
	Location string
	Presider string

	OpeningPrayer    string
	OpeningHymnLine  string
	SpiritualThought string

	Points []PointView

	ClosingHymnLine string
	ClosingPrayer   string
}

// PointView is a displayed agenda item. Number is the 1-based position
// in the full underlying sequence, not a count of visible points, so
// visible numbering keeps gaps where earlier points are hidden.
type PointView struct {
	Number      int
	Title       string
	Responsible string
	Observation string
}

// Project derives the display document for a program.
func Project(p program.Program) Document {
	doc := Document{
		Title:            p.MeetingType.Label(),
		DateText:         orPlaceholder(FormatDate(p.Date), PlaceholderFeminine),
		TimeText:         orPlaceholder(FormatTime(p.Time), PlaceholderFeminine),
		Location:         orPlaceholder(p.Location, PlaceholderMasculine),
		Presider:         p.Presider,
		OpeningPrayer:    p.OpeningPrayer,
		OpeningHymnLine:  HymnLine(p.OpeningHymn.Number, p.OpeningHymn.Title),
		SpiritualThought: p.SpiritualThought,
		ClosingHymnLine:  HymnLine(p.ClosingHymn.Number, p.ClosingHymn.Title),
		ClosingPrayer:    p.ClosingPrayer,
	}

	for i, point := range p.Points {
		// A point with neither title nor responsible stays in the data
		// (and keeps its index) but is never shown.
		if point.Title == "" && point.Responsible == "" {
			continue
		}
		doc.Points = append(doc.Points, PointView{
			Number:      i + 1,
			Title:       point.Title,
			Responsible: point.Responsible,
			Observation: point.Observation,
		})
	}

	return doc
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
