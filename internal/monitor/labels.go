package monitor

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// humanize turns an API enum such as "degraded_performance" into "degraded performance".
func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// titleCase upper-cases the first letter of each word and lower-cases the rest.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func productLabel(prefix, subject string) string {
	return prefix + " - " + subject
}
