// Package chromium renders the preview page to PDF and PNG using a
// shared headless Chromium instance via chromedp.
package chromium

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/agendacreate/agenda/export"
)

// A4 portrait in inches and the matching CSS pixel width at 96dpi.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	pageWidthPx    = 794
	pageHeightPx   = 1123
)

// DefaultTimeout bounds one capture end to end. DefaultSettleDelay is
// the post-ready pause that lets images and web fonts finish painting.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultSettleDelay = 500 * time.Millisecond
)

// preCaptureJS pins the preview subtree to the fixed physical page
// width, disables clipping and forces relative positioning with an
// explicit stacking order on the header, logo and ward-name elements.
// Skipping this step is the dominant cause of cropped or missing
// header content in the captured output.
const preCaptureJS = `(() => {
  const el = document.getElementById('program-preview');
  if (!el) return false;
  el.style.width = '210mm';
  el.style.margin = '0 auto';
  el.style.transform = 'none';
  el.style.position = 'relative';
  el.style.height = 'auto';
  el.style.minHeight = 'auto';
  el.style.overflow = 'visible';
  el.style.boxSizing = 'border-box';
  const header = el.querySelector('.preview-top-header');
  if (header) { header.style.position = 'relative'; header.style.zIndex = 'auto'; }
  const logo = el.querySelector('.ward-logo');
  if (logo) { logo.style.position = 'relative'; logo.style.zIndex = '1'; }
  const wardName = el.querySelector('.ward-name');
  if (wardName) { wardName.style.position = 'relative'; wardName.style.zIndex = '1'; }
  return true;
})()`

// Engine implements export.Rasterizer against a lazily started shared
// browser. Safe for sequential use; the export service already
// serializes captures.
type Engine struct {
	// BrowserPath overrides the Chromium binary location.
	BrowserPath string
	// Headless toggles headless mode (on in production, off to debug).
	Headless bool
	// Timeout bounds one capture. Zero means DefaultTimeout.
	Timeout time.Duration
	// SettleDelay is the extra paint wait. Zero means DefaultSettleDelay.
	SettleDelay time.Duration
	// Args are extra browser flags ("name=value" or bare switches).
	Args []string
	// AllowExternalAssets permits network loads during capture. The
	// preview is self-contained, so the default blocks them.
	AllowExternalAssets bool

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// RenderPDF prints the preview page to a paginated A4 PDF.
func (e *Engine) RenderPDF(ctx context.Context, html []byte, opts export.PDFOptions) ([]byte, error) {
	params, err := printParams(opts)
	if err != nil {
		return nil, err
	}

	var pdf []byte
	err = e.capture(ctx, html, chromedp.ActionFunc(func(ctx context.Context) error {
		out, _, err := params.Do(ctx)
		if err != nil {
			return err
		}
		pdf = out
		return nil
	}))
	if err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, export.NewError(export.KindErrEncoding, "chromium produced an empty pdf", nil)
	}
	return pdf, nil
}

// RenderPNG captures a full-page lossless screenshot at the requested
// device scale factor.
func (e *Engine) RenderPNG(ctx context.Context, html []byte, opts export.ImageOptions) ([]byte, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = export.DefaultImageScale
	}

	var png []byte
	err := e.capture(ctx, html,
		chromedp.EmulateViewport(pageWidthPx, pageHeightPx, chromedp.EmulateScale(scale)),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, err
	}
	if len(png) == 0 {
		return nil, export.NewError(export.KindErrEncoding, "chromium produced an empty screenshot", nil)
	}
	return png, nil
}

// capture loads the page into a fresh tab, applies the shared capture
// preamble and runs the kind-specific tail actions.
func (e *Engine) capture(ctx context.Context, html []byte, tail ...chromedp.Action) error {
	if e == nil {
		return export.NewError(export.KindErrInternal, "chromium engine is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.ensureBrowser(); err != nil {
		return export.NewError(export.KindErrInternal, "chromium engine init failed", err)
	}

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	defer cancel()

	execCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-execCtx.Done():
		}
	}()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	execCtx, cancelTimeout := context.WithTimeout(execCtx, timeout)
	defer cancelTimeout()

	settle := e.SettleDelay
	if settle <= 0 {
		settle = DefaultSettleDelay
	}

	actions := []chromedp.Action{}
	if !e.AllowExternalAssets {
		actions = append(actions,
			network.Enable(),
			network.SetBlockedURLs().WithURLPatterns([]*network.BlockPattern{
				{URLPattern: "http://*", Block: true},
				{URLPattern: "https://*", Block: true},
			}),
		)
	}
	actions = append(actions,
		// Theme-independent opaque white canvas.
		emulation.SetDefaultBackgroundColorOverride().
			WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var ok bool
			if err := chromedp.Evaluate(preCaptureJS, &ok).Do(ctx); err != nil {
				return err
			}
			if !ok {
				return export.NewError(export.KindErrPrecondition, "preview root element not found in capture page", nil)
			}
			return nil
		}),
		chromedp.Sleep(settle),
	)
	actions = append(actions, tail...)

	if err := chromedp.Run(execCtx, actions...); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return export.NewError(export.KindErrTimeout, "chromium capture timed out", err)
		}
		kind := export.KindFromError(err)
		if kind == export.KindErrInternal {
			kind = export.KindErrEncoding
		}
		return export.NewError(kind, "chromium capture failed", err)
	}
	return nil
}

// Close releases Chromium resources if they have been initialized.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func (e *Engine) ensureBrowser() error {
	e.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			options = append(options, chromedp.ExecPath(e.BrowserPath))
		}
		options = append(options, chromedp.Flag("headless", e.Headless))
		options = append(options, allocatorOptionsFromArgs(e.Args)...)

		e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		e.browserCtx, e.browserCancel = chromedp.NewContext(e.allocCtx)
	})
	if e.allocCtx == nil || e.browserCtx == nil {
		return errors.New("chromium allocator unavailable")
	}
	return nil
}

func printParams(opts export.PDFOptions) (*page.PrintToPDFParams, error) {
	params := page.PrintToPDF().
		WithPaperWidth(a4WidthInches).
		WithPaperHeight(a4HeightInches)

	if opts.PageSize != "" && !strings.EqualFold(opts.PageSize, "A4") {
		return nil, export.NewError(export.KindErrValidation,
			fmt.Sprintf("unsupported pdf page size: %s", opts.PageSize), nil)
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1.0
	}
	// The CDP print endpoint rejects scales outside 0.1..2.0.
	if scale < 0.1 || scale > 2.0 {
		return nil, export.NewError(export.KindErrValidation,
			fmt.Sprintf("pdf scale must be between 0.1 and 2.0, got %v", scale), nil)
	}
	params = params.WithScale(scale).WithPrintBackground(opts.PrintBackground)

	margin := opts.MarginMM / 25.4
	if margin < 0 {
		return nil, export.NewError(export.KindErrValidation, "pdf margin must not be negative", nil)
	}
	params = params.
		WithMarginTop(margin).
		WithMarginBottom(margin).
		WithMarginLeft(margin).
		WithMarginRight(margin)

	return params, nil
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(arg), "--"))
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
