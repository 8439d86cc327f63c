package export

import (
	"testing"
	"time"

	"github.com/agendacreate/agenda/program"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Consejo de Barrio", "consejo-de-barrio"},
		{"Reunión de Líderes", "reunión-de-líderes"},
		{"Actividad", "actividad"},
		{"  ¡Noche de Hogar!  ", "noche-de-hogar"},
		{"a___b---c", "a-b-c"},
		{"", ""},
		{"---", ""},
	}

	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, in := range []string{"Consejo de Barrio", "Reunión de Líderes", "x  y", "ñandú & co"} {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Fatalf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestFilenameDerivation(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	p := program.Program{MeetingType: program.MeetingWardCouncil, Date: "2024-03-07"}
	if got := Filename(p, "pdf", now); got != "consejo-de-barrio-07-03-2024.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}

	p.MeetingType = program.MeetingLeadership
	if got := Filename(p, "png", now); got != "reunión-de-líderes-07-03-2024.png" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestFilenameSplitsStoredDateDirectly(t *testing.T) {
	// The stored components must be reused verbatim, never routed
	// through a timezone-sensitive parse that could shift the day.
	now := time.Date(2024, 6, 1, 0, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	p := program.Program{MeetingType: program.MeetingActivity, Date: "2024-01-01"}
	if got := Filename(p, "png", now); got != "actividad-01-01-2024.png" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestFilenameMissingDateUsesNow(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := program.Program{MeetingType: program.MeetingActivity}
	if got := Filename(p, "pdf", now); got != "actividad-01-06-2024.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestFilenameMalformedDateFallsBack(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// Three components with a 4-digit year reuse the stored components
	// verbatim, padding included (or not).
	p := program.Program{MeetingType: program.MeetingActivity, Date: "2024-3-7"}
	if got := Filename(p, "pdf", now); got != "actividad-7-3-2024.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}

	// Other separators go through the parse fallback.
	p.Date = "2024/03/07"
	if got := Filename(p, "pdf", now); got != "actividad-07-03-2024.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}

	// Hopeless input falls back to now.
	p.Date = "next sunday"
	if got := Filename(p, "pdf", now); got != "actividad-01-06-2024.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestFilenameUnknownMeetingTypeUsesRawValue(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := program.Program{MeetingType: "Reunión Sacramental", Date: "2024-03-07"}
	if got := Filename(p, "pdf", now); got != "reunión-sacramental-07-03-2024.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}
