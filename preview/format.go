package preview

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Placeholder text for empty optional fields. Feminine/masculine forms
// follow the labeled noun (fecha/hora vs. lugar).
const (
	PlaceholderFeminine  = "No especificada"
	PlaceholderMasculine = "No especificado"
)

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders a stored "yyyy-mm-dd" date in the long Spanish
// form "weekday, d de month de yyyy". Empty or unparseable input yields
// the empty string; the caller substitutes the placeholder.
func FormatDate(date string) string {
	if date == "" {
		return ""
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdays[parsed.Weekday()],
		parsed.Day(),
		spanishMonths[parsed.Month()-1],
		parsed.Year(),
	)
}

// FormatTime converts a 24-hour "HH:MM" value to a 12-hour clock with
// AM/PM. Hour 0 is midnight ("12:MM AM") and hour 12 is noon
// ("12:MM PM"); minutes are zero-padded. Empty or unparseable input
// yields the empty string.
func FormatTime(value string) string {
	if value == "" {
		return ""
	}
	hoursPart, minutesPart, ok := strings.Cut(value, ":")
	if !ok {
		return ""
	}
	hours, err := strconv.Atoi(hoursPart)
	if err != nil || hours < 0 || hours > 23 {
		return ""
	}
	// Malformed minutes degrade to :00, matching the editor's behavior
	// for partially typed input.
	minutes, err := strconv.Atoi(minutesPart)
	if err != nil || minutes < 0 || minutes > 59 {
		minutes = 0
	}

	meridiem := "AM"
	if hours >= 12 {
		meridiem = "PM"
	}
	hours12 := hours
	if hours12 == 0 {
		hours12 = 12
	} else if hours12 > 12 {
		hours12 -= 12
	}
	return fmt.Sprintf("%d:%02d %s", hours12, minutes, meridiem)
}

// HymnLine joins a hymn's number and title into the display line:
// "N° {number} - {title}" when both are present, just the present field
// otherwise, and the empty string when the hymn is empty.
func HymnLine(number, title string) string {
	switch {
	case number != "" && title != "":
		return "N° " + number + " - " + title
	case number != "":
		return "N° " + number
	default:
		return title
	}
}
