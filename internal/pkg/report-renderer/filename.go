package reportrenderer

import (
	"strings"
	"time"
	"unicode"
)

// FileName builds "Report_<number>_<YYYY-MM-DD>.pdf". Characters that are
// unsafe in file names are replaced with "-".
func FileName(number string, now time.Time) string {
	number = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '-'
	}, NumberOrFallback(number, now))

	return "Report_" + number + "_" + now.Format("2006-01-02") + ".pdf"
}
