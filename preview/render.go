package preview

import (
	_ "embed"

	"github.com/flosch/pongo2/v6"
	"github.com/goliatone/go-errors"

	"github.com/agendacreate/agenda/program"
)

// ElementID is the id of the preview root element. The rasterizer uses
// it to apply the pre-capture adjustment to exactly this subtree.
const ElementID = "program-preview"

//go:embed templates/preview.html
var previewSource string

var previewTemplate = pongo2.Must(pongo2.FromString(previewSource))

// Renderer turns a program into the standalone preview HTML page. The
// output doubles as the on-screen preview and the rasterization source,
// so the page carries the fixed physical width and the stacking rules
// the capture depends on.
type Renderer struct {
	WardName string
	LogoURL  string
}

// Render projects the program and executes the preview template.
func (r Renderer) Render(p program.Program) ([]byte, error) {
	doc := Project(p)
	out, err := previewTemplate.ExecuteBytes(pongo2.Context{
		"doc":       doc,
		"ward_name": r.WardName,
		"logo_url":  r.LogoURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "preview template execution failed").
			WithTextCode("PREVIEW_RENDER")
	}
	return out, nil
}
