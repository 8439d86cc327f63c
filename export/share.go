package export

import (
	"context"
	"errors"
	"net/url"
	"time"
)

// ErrShareCanceled is returned by NativeShare implementations when the
// user dismissed the native share sheet. It is not a failure: the
// pipeline falls back to the WhatsApp path.
var ErrShareCanceled = errors.New("share canceled by user")

// ShareMode is how a share request was (or must be) fulfilled.
type ShareMode string

const (
	// ShareModeNative: the platform shared the file directly.
	ShareModeNative ShareMode = "native"
	// ShareModeWhatsApp: download + compose-URL fallback. A URL cannot
	// carry an attachment; the user attaches the downloaded file by
	// hand (platform limitation, not a defect).
	ShareModeWhatsApp ShareMode = "whatsapp"
)

// DefaultInstructionDelay is how long the client waits before showing
// the attach-by-hand instruction, leaving the download time to start.
const DefaultInstructionDelay = 800 * time.Millisecond

// NativeShare is the optional platform share capability.
type NativeShare interface {
	CanShare(ctx context.Context, meta ArtifactMeta) bool
	Share(ctx context.Context, title, text string, artifact Artifact) error
}

// ShareCapability is the per-attempt resolution of the platform share
// support: either Unavailable or Available with a concrete sharer.
// It is decided once per export attempt, not cached as a feature flag.
type ShareCapability struct {
	Available bool
	sharer    NativeShare
}

// ResolveShareCapability probes the platform capability for this
// specific artifact.
func ResolveShareCapability(ctx context.Context, sharer NativeShare, meta ArtifactMeta) ShareCapability {
	if sharer == nil || !sharer.CanShare(ctx, meta) {
		return ShareCapability{}
	}
	return ShareCapability{Available: true, sharer: sharer}
}

// Share invokes the resolved native capability.
func (c ShareCapability) Share(ctx context.Context, title, text string, artifact Artifact) error {
	if !c.Available || c.sharer == nil {
		return NewError(KindErrPrecondition, "native share capability unavailable", nil)
	}
	return c.sharer.Share(ctx, title, text, artifact)
}

// SharePlan is the outcome of a share export: either the file went out
// through the native sheet, or the client must run the WhatsApp
// fallback (download the artifact, open the compose URL, then show the
// instruction after a short delay).
type SharePlan struct {
	Mode             ShareMode     `json:"mode"`
	Artifact         Artifact      `json:"artifact"`
	Title            string        `json:"title"`
	Text             string        `json:"text"`
	WhatsAppURL      string        `json:"whatsappUrl,omitempty"`
	Instruction      string        `json:"instruction,omitempty"`
	InstructionDelay time.Duration `json:"instructionDelayMs,omitempty"`
}

// ShareText is the descriptive text attached to a shared program.
func ShareText(meetingLabel string) string {
	if meetingLabel == "" {
		meetingLabel = "reunión"
	}
	return "Programa de " + meetingLabel
}

// WhatsAppURL builds the wa.me compose URL pre-filled with text.
func WhatsAppURL(text string) string {
	return "https://wa.me/?text=" + url.QueryEscape(text)
}

const shareInstruction = "La imagen se ha descargado con el nombre correcto. " +
	"Por favor, adjunta la imagen descargada en WhatsApp Web."

func whatsAppPlan(artifact Artifact, title, text string) SharePlan {
	return SharePlan{
		Mode:             ShareModeWhatsApp,
		Artifact:         artifact,
		Title:            title,
		Text:             text,
		WhatsAppURL:      WhatsAppURL(text),
		Instruction:      shareInstruction,
		InstructionDelay: DefaultInstructionDelay,
	}
}
