package preview

import (
	"strings"
	"testing"
	"time"

	"github.com/agendacreate/agenda/program"
)

func TestRendererProducesCapturePage(t *testing.T) {
	p := program.Default(time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC))
	p.Presider = "Obispo Díaz"
	p.Points[0].Title = "Asuntos de barrio"

	r := Renderer{WardName: "Barrio Tuman", LogoURL: "/public/logo.jpeg"}
	out, err := r.Render(p)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	html := string(out)
	for _, want := range []string{
		`id="program-preview"`,
		"width: 210mm",
		"Barrio Tuman",
		"Consejo de Barrio",
		"jueves, 7 de marzo de 2024",
		"7:00 PM",
		"Obispo Díaz",
		"Asuntos de barrio",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered page missing %q", want)
		}
	}
}

func TestRendererEscapesUserText(t *testing.T) {
	p := program.Default(time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC))
	p.Location = `<script>alert("x")</script>`

	out, err := Renderer{WardName: "Barrio Tuman"}.Render(p)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>alert") {
		t.Fatalf("user text must be escaped")
	}
}

func TestRendererEmptyOptionalSectionsOmitted(t *testing.T) {
	p := program.Default(time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC))

	out, err := Renderer{WardName: "Barrio Tuman"}.Render(p)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	html := string(out)
	for _, absent := range []string{
		"Himno inicial:", "Himno final:", "Oración inicial:", "Oración final:", "Preside:",
	} {
		if strings.Contains(html, absent) {
			t.Fatalf("empty section %q must be omitted", absent)
		}
	}
}
