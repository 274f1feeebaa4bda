package export

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxSheetName  = 31
	sheetNameBase = 28
)

var illegalSheetChars = regexp.MustCompile(`[\\/*?:\[\]]`)

// sheetNamer hands out unique, valid worksheet names for one workbook.
// Names are compared case-insensitively, as spreadsheet applications do.
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: make(map[string]bool)}
}

// next derives a sheet name from a chart title: illegal characters become
// underscores, the result is cut to 28 characters, and collisions get a
// _1, _2, ... suffix.
func (n *sheetNamer) next(title string) string {
	base := illegalSheetChars.ReplaceAllString(title, "_")
	base = truncate(base, sheetNameBase)
	// Sheet names may not start or end with an apostrophe
	base = strings.Trim(base, "'")
	if strings.TrimSpace(base) == "" {
		base = "Chart"
	}

	candidate := base
	for i := 1; n.used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		candidate = truncate(base, maxSheetName-len(suffix)) + suffix
	}

	n.used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
