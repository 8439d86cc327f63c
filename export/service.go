package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/agendacreate/agenda/program"
)

// DefaultReleaseDelay bounds how long a stored artifact outlives the
// response that announced it. Deletion is delayed, not immediate, so
// the client's download is never raced.
const DefaultReleaseDelay = 5 * time.Minute

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Preview PreviewSource
	Raster  Rasterizer
	Store   ArtifactStore
	Native  NativeShare
	Logger  Logger

	ImageScale   float64
	ShareScale   float64
	ReleaseDelay time.Duration
	Now          func() time.Time
}

// Service runs the export pipeline: preview HTML in, named artifact
// out. At most one export is in flight at a time; the gate is a plain
// flag, not a queue, and a second trigger while one is pending is
// rejected as busy.
type Service struct {
	preview PreviewSource
	raster  Rasterizer
	store   ArtifactStore
	native  NativeShare
	logger  Logger

	imageScale   float64
	shareScale   float64
	releaseDelay time.Duration
	now          func() time.Time

	inFlight atomic.Bool
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	imageScale := cfg.ImageScale
	if imageScale <= 0 {
		imageScale = DefaultImageScale
	}
	shareScale := cfg.ShareScale
	if shareScale <= 0 {
		shareScale = DefaultShareScale
	}
	releaseDelay := cfg.ReleaseDelay
	if releaseDelay <= 0 {
		releaseDelay = DefaultReleaseDelay
	}

	return &Service{
		preview:      cfg.Preview,
		raster:       cfg.Raster,
		store:        cfg.Store,
		native:       cfg.Native,
		logger:       logger,
		imageScale:   imageScale,
		shareScale:   shareScale,
		releaseDelay: releaseDelay,
		now:          nowFn,
	}
}

// Busy reports whether an export is currently in flight.
func (s *Service) Busy() bool {
	return s.inFlight.Load()
}

// ExportPDF renders the preview into a single A4 PDF with zero margins
// and triggers no save on failure.
func (s *Service) ExportPDF(ctx context.Context, p program.Program) (Artifact, error) {
	return s.run(ctx, KindPDF, func(ctx context.Context, html []byte) (Artifact, error) {
		// Print capture is vector-based; layout is already at the
		// physical page width, so no upscale is applied.
		data, err := s.raster.RenderPDF(ctx, html, PDFOptions{
			Scale:           1.0,
			PageSize:        "A4",
			MarginMM:        0,
			PrintBackground: true,
			JPEGQuality:     0.98,
		})
		if err != nil {
			return Artifact{}, err
		}
		return s.finish(ctx, p, data, "pdf", ContentTypePDF)
	})
}

// ExportImage renders the preview into a lossless PNG.
func (s *Service) ExportImage(ctx context.Context, p program.Program) (Artifact, error) {
	return s.run(ctx, KindImage, func(ctx context.Context, html []byte) (Artifact, error) {
		data, err := s.raster.RenderPNG(ctx, html, ImageOptions{Scale: s.imageScale})
		if err != nil {
			return Artifact{}, err
		}
		return s.finish(ctx, p, data, "png", ContentTypePNG)
	})
}

// Share renders the preview at the higher share scale and resolves the
// share plan: native when the platform can share this file, otherwise
// the WhatsApp download-and-compose fallback. A canceled or failed
// native share falls back rather than surfacing an error.
func (s *Service) Share(ctx context.Context, p program.Program) (SharePlan, error) {
	var plan SharePlan
	_, err := s.run(ctx, KindShare, func(ctx context.Context, html []byte) (Artifact, error) {
		data, err := s.raster.RenderPNG(ctx, html, ImageOptions{Scale: s.shareScale})
		if err != nil {
			return Artifact{}, err
		}
		artifact, err := s.finish(ctx, p, data, "png", ContentTypePNG)
		if err != nil {
			return Artifact{}, err
		}

		title := strings.TrimSuffix(artifact.Filename, ".png")
		text := ShareText(p.MeetingType.Label())
		meta := ArtifactMeta{
			Filename:    artifact.Filename,
			ContentType: artifact.ContentType,
			Size:        artifact.Size,
			CreatedAt:   s.now(),
		}

		capability := ResolveShareCapability(ctx, s.native, meta)
		if capability.Available {
			shareErr := capability.Share(ctx, title, text, artifact)
			if shareErr == nil {
				plan = SharePlan{Mode: ShareModeNative, Artifact: artifact, Title: title, Text: text}
				return artifact, nil
			}
			if errors.Is(shareErr, ErrShareCanceled) {
				s.logger.Debugf("native share canceled, falling back to whatsapp")
			} else {
				s.logger.Errorf("native share failed, falling back to whatsapp: %v", shareErr)
			}
		}

		plan = whatsAppPlan(artifact, title, text)
		return artifact, nil
	})
	if err != nil {
		return SharePlan{}, err
	}
	return plan, nil
}

// run owns the common pipeline steps: gate, preview precondition,
// kind-specific capture, error wrapping.
func (s *Service) run(ctx context.Context, kind Kind, capture func(context.Context, []byte) (Artifact, error)) (Artifact, error) {
	if s == nil || s.raster == nil {
		return Artifact{}, NewError(KindErrInternal, "export service is not configured", nil)
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return Artifact{}, NewError(KindErrBusy, "another export is already in progress", nil)
	}
	defer s.inFlight.Store(false)

	html, err := s.previewHTML()
	if err != nil {
		return Artifact{}, err
	}

	started := s.now()
	artifact, err := capture(ctx, html)
	if err != nil {
		s.logger.Errorf("%s export failed after %s: %v", kind, s.now().Sub(started), err)
		return Artifact{}, err
	}

	s.logger.Infof("%s export produced %s (%d bytes) in %s",
		kind, artifact.Filename, artifact.Size, s.now().Sub(started))
	return artifact, nil
}

// previewHTML enforces the precondition that a rendered preview exists.
func (s *Service) previewHTML() ([]byte, error) {
	if s.preview == nil {
		return nil, NewError(KindErrPrecondition, "no se encontró el elemento de preview", nil)
	}
	html, err := s.preview.PreviewHTML()
	if err != nil {
		return nil, NewError(KindErrPrecondition, "no se encontró el elemento de preview", err)
	}
	if len(bytes.TrimSpace(html)) == 0 {
		return nil, NewError(KindErrPrecondition, "no se encontró el elemento de preview", nil)
	}
	return html, nil
}

// finish names the capture output and stores it with delayed release.
func (s *Service) finish(ctx context.Context, p program.Program, data []byte, ext, contentType string) (Artifact, error) {
	if len(data) == 0 {
		return Artifact{}, NewError(KindErrEncoding, "rasterizer returned no output", nil)
	}

	now := s.now()
	filename := Filename(p, ext, now)
	artifact := Artifact{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}

	if s.store == nil {
		return artifact, nil
	}

	key := fmt.Sprintf("exports/%d-%s", now.UnixNano(), filename)
	ref, err := s.store.Put(ctx, key, bytes.NewReader(data), ArtifactMeta{
		Filename:    filename,
		ContentType: contentType,
		CreatedAt:   now,
	})
	if err != nil {
		return Artifact{}, NewError(KindErrInternal, "failed to store artifact", err)
	}
	artifact.Key = ref.Key
	s.scheduleRelease(ref.Key)

	return artifact, nil
}

// scheduleRelease deletes the stored artifact after the release delay.
// The delay keeps the artifact alive long enough for the client to
// fetch it; the retention sweep is the backstop.
func (s *Service) scheduleRelease(key string) {
	store := s.store
	logger := s.logger
	time.AfterFunc(s.releaseDelay, func() {
		if err := store.Delete(context.Background(), key); err != nil {
			if KindFromError(err) != KindErrNotFound {
				logger.Debugf("artifact release failed for %s: %v", key, err)
			}
		}
	})
}
