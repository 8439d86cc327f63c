package export

import (
	"context"
	"strings"
	"testing"
)

type stubSharer struct {
	canShare bool
	err      error
	calls    int
	title    string
	text     string
}

func (s *stubSharer) CanShare(ctx context.Context, meta ArtifactMeta) bool {
	return s.canShare
}

func (s *stubSharer) Share(ctx context.Context, title, text string, artifact Artifact) error {
	s.calls++
	s.title = title
	s.text = text
	return s.err
}

func TestShareUsesHigherScale(t *testing.T) {
	raster := &stubRaster{}
	svc := testService(raster)

	if _, err := svc.Share(context.Background(), testProgram()); err != nil {
		t.Fatalf("share: %v", err)
	}
	if raster.lastPNG.Scale != DefaultShareScale {
		t.Fatalf("share must rasterize at the share scale, got %v", raster.lastPNG.Scale)
	}
}

func TestShareNative(t *testing.T) {
	raster := &stubRaster{}
	sharer := &stubSharer{canShare: true}
	svc := testService(raster, func(cfg *ServiceConfig) { cfg.Native = sharer })

	plan, err := svc.Share(context.Background(), testProgram())
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if plan.Mode != ShareModeNative {
		t.Fatalf("expected native mode, got %q", plan.Mode)
	}
	if sharer.calls != 1 {
		t.Fatalf("expected one native share call, got %d", sharer.calls)
	}
	if sharer.title != "consejo-de-barrio-07-03-2024" {
		t.Fatalf("title must be the filename without extension, got %q", sharer.title)
	}
	if sharer.text != "Programa de Consejo de Barrio" {
		t.Fatalf("unexpected share text %q", sharer.text)
	}
	if plan.WhatsAppURL != "" {
		t.Fatalf("native plan carries no whatsapp url")
	}
}

func TestShareCancelFallsBackToWhatsApp(t *testing.T) {
	raster := &stubRaster{}
	sharer := &stubSharer{canShare: true, err: ErrShareCanceled}
	svc := testService(raster, func(cfg *ServiceConfig) { cfg.Native = sharer })

	plan, err := svc.Share(context.Background(), testProgram())
	if err != nil {
		t.Fatalf("cancel must not surface an error, got %v", err)
	}
	if plan.Mode != ShareModeWhatsApp {
		t.Fatalf("expected whatsapp fallback, got %q", plan.Mode)
	}
	if !strings.HasPrefix(plan.WhatsAppURL, "https://wa.me/?text=") {
		t.Fatalf("unexpected whatsapp url %q", plan.WhatsAppURL)
	}
	if plan.Instruction == "" || plan.InstructionDelay <= 0 {
		t.Fatalf("fallback plan must carry the delayed instruction")
	}
}

func TestShareNativeErrorFallsBackToWhatsApp(t *testing.T) {
	raster := &stubRaster{}
	sharer := &stubSharer{canShare: true, err: NewError(KindErrInternal, "sheet broke", nil)}
	svc := testService(raster, func(cfg *ServiceConfig) { cfg.Native = sharer })

	plan, err := svc.Share(context.Background(), testProgram())
	if err != nil {
		t.Fatalf("native errors must fall back, got %v", err)
	}
	if plan.Mode != ShareModeWhatsApp {
		t.Fatalf("expected whatsapp fallback, got %q", plan.Mode)
	}
}

func TestShareUnavailableCapability(t *testing.T) {
	raster := &stubRaster{}
	sharer := &stubSharer{canShare: false}
	svc := testService(raster, func(cfg *ServiceConfig) { cfg.Native = sharer })

	plan, err := svc.Share(context.Background(), testProgram())
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if plan.Mode != ShareModeWhatsApp {
		t.Fatalf("expected whatsapp plan, got %q", plan.Mode)
	}
	if sharer.calls != 0 {
		t.Fatalf("unavailable capability must never be invoked")
	}
}

func TestWhatsAppURLEncoding(t *testing.T) {
	got := WhatsAppURL("Programa de Reunión de Líderes")
	if got != "https://wa.me/?text=Programa+de+Reuni%C3%B3n+de+L%C3%ADderes" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestShareTextFallback(t *testing.T) {
	if got := ShareText(""); got != "Programa de reunión" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestResolveShareCapability(t *testing.T) {
	if cap := ResolveShareCapability(context.Background(), nil, ArtifactMeta{}); cap.Available {
		t.Fatalf("nil sharer must resolve to unavailable")
	}
	if cap := ResolveShareCapability(context.Background(), &stubSharer{canShare: false}, ArtifactMeta{}); cap.Available {
		t.Fatalf("declined probe must resolve to unavailable")
	}
	if cap := ResolveShareCapability(context.Background(), &stubSharer{canShare: true}, ArtifactMeta{}); !cap.Available {
		t.Fatalf("accepted probe must resolve to available")
	}
}
