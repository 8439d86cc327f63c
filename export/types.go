package export

import (
	"context"
	"io"
	"time"
)

// Kind is the export artifact kind.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
	KindShare Kind = "share"
)

// Content types of the produced artifacts.
const (
	ContentTypePDF = "application/pdf"
	ContentTypePNG = "image/png"
)

// Default upscale factors. Share exports use a higher factor because
// the artifact leaves the device and quality wins over size.
const (
	DefaultImageScale = 2.0
	DefaultShareScale = 4.0
)

// PDFOptions configures a PDF capture.
type PDFOptions struct {
	// Scale is the rasterization upscale factor.
	Scale float64
	// PageSize names the paper size, e.g. "A4".
	PageSize string
	// MarginMM is applied to all four edges.
	MarginMM float64
	// PrintBackground keeps the page background in the output.
	PrintBackground bool
	// JPEGQuality is the embedded-image compression quality (0..1).
	JPEGQuality float64
}

// ImageOptions configures a PNG capture. PNG output is lossless; Scale
// is the only quality knob.
type ImageOptions struct {
	Scale float64
}

// Rasterizer is the external capability that turns the rendered
// preview page into pixels. Implementations own the byte-level
// encoding; this package only decides naming and composition.
type Rasterizer interface {
	RenderPDF(ctx context.Context, html []byte, opts PDFOptions) ([]byte, error)
	RenderPNG(ctx context.Context, html []byte, opts ImageOptions) ([]byte, error)
}

// PreviewSource hands the pipeline the already-rendered preview page.
// The pipeline reads pixels from this handle, never from the program
// model directly.
type PreviewSource interface {
	PreviewHTML() ([]byte, error)
}

// PreviewSourceFunc adapts a function to a PreviewSource.
type PreviewSourceFunc func() ([]byte, error)

func (f PreviewSourceFunc) PreviewHTML() ([]byte, error) {
	if f == nil {
		return nil, NewError(KindErrPrecondition, "preview source is not configured", nil)
	}
	return f()
}

// Artifact is one produced export file.
type Artifact struct {
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// ArtifactMeta describes a stored artifact.
type ArtifactMeta struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ArtifactRef points at a stored artifact.
type ArtifactRef struct {
	Key  string       `json:"key"`
	Meta ArtifactMeta `json:"meta"`
}

// ArtifactStore persists artifacts long enough for the client to fetch
// them. Stores are not archives; retention sweeps old entries.
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]ArtifactRef, error)
}

// Logger is the minimal logging surface used by the pipeline.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards all log output.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
