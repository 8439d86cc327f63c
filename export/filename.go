package export

import (
	"strings"
	"time"

	"github.com/agendacreate/agenda/program"
)

// Sanitize lowercases a label and reduces it to the filename-safe
// charset: ASCII letters, digits and the locale's accented vowels plus
// ñ and ü. Every other rune becomes a hyphen; runs collapse to one and
// edge hyphens are stripped. The function is idempotent.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true // swallow leading hyphens
	for _, r := range strings.ToLower(name) {
		if allowedFilenameRune(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

func allowedFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	switch r {
	case 'á', 'é', 'í', 'ó', 'ú', 'ñ', 'ü':
		return true
	}
	return false
}

// Filename derives the artifact name for a program:
// "{sanitized-meeting-type-label}-{dd-mm-yyyy}.{ext}".
func Filename(p program.Program, ext string, now time.Time) string {
	return Sanitize(p.MeetingType.Label()) + "-" + fileDate(p.Date, now) + "." + ext
}

// fileDate converts the stored "yyyy-mm-dd" date to "dd-mm-yyyy".
//
// When the stored value already carries three dash-separated components
// with a 4-digit year it is re-ordered directly, never routed through a
// timezone-sensitive parse: reparsing a date-only string can shift the
// day by one depending on the local offset. Absent or malformed dates
// fall back to a parse attempt and finally to "now".
func fileDate(stored string, now time.Time) string {
	if stored != "" {
		parts := strings.Split(stored, "-")
		if len(parts) == 3 && len(parts[0]) == 4 {
			return parts[2] + "-" + parts[1] + "-" + parts[0]
		}
		for _, layout := range []string{"2006/01/02", "02/01/2006", "2006-1-2"} {
			if parsed, err := time.Parse(layout, stored); err == nil {
				return parsed.Format("02-01-2006")
			}
		}
	}
	return now.Format("02-01-2006")
}
