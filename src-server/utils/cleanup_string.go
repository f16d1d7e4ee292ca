package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CleanupEventTitle tidies a title extracted from free-form quick-add
// text: strips surrounding spaces and connecting words left over after
// removing the time phrase, title-cases it, drops a trailing period.
func CleanupEventTitle(s string) string {
	s = strings.TrimSpace(s)
	for _, connector := range []string{"at", "on", "from"} {
		s = strings.TrimPrefix(s, connector+" ")
		s = strings.TrimSuffix(s, " "+connector)
	}
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimSpace(s)
	s = cases.Title(language.English).String(s)
	return s
}
