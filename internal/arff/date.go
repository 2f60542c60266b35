package arff

import (
	"fmt"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/roach88/arff/internal/value"
)

// wekaReplacer translates a Weka-style date pattern to a Go time
// layout by substituting the year/month/day/hour/minute/second
// tokens. Pattern text outside these tokens passes through literally.
var wekaReplacer = strings.NewReplacer(
	"yyyy", "2006",
	"MM", "01",
	"dd", "02",
	"HH", "15",
	"mm", "04",
	"ss", "05",
)

func wekaLayout(pattern string) string {
	return wekaReplacer.Replace(pattern)
}

// formatDate normalizes a date value to the text form the given
// Weka-style pattern prescribes. Free-text payloads are first decoded
// by the generic date parser.
func formatDate(v value.Date, pattern string) (string, error) {
	t, ok := v.Time()
	if !ok {
		parsed, err := dateparse.ParseAny(v.Text())
		if err != nil {
			return "", fmt.Errorf("unparseable date %q: %w", v.Text(), err)
		}
		t = parsed
	}
	return t.Format(wekaLayout(pattern)), nil
}
