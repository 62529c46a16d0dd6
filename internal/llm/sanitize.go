package llm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	headingRe = regexp.MustCompile(`^#{1,6}\s+`)
	bulletRe  = regexp.MustCompile(`^(\s*)([-*•]|\d+[.)])\s+`)
	boldRe    = regexp.MustCompile(`(\*\*|__)(.*?)(\*\*|__)`)
)

// clichePhrases are transition fillers the models keep reaching for. They are
// stripped wherever they open a line.
var clichePhrases = []string{
	"In conclusion,",
	"In conclusion",
	"In summary,",
	"It is worth noting that",
	"It's worth noting that",
	"Furthermore, it should be mentioned that",
	"في الختام،",
	"في الختام",
	"وفي الختام،",
	"ومن الجدير بالذكر أن",
	"جدير بالذكر أن",
	"تجدر الإشارة إلى أن",
}

// Sanitize strips the markdown decoration and stock transitions that leak
// into model output, leaving plain newspaper prose.
func Sanitize(body string) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		line = headingRe.ReplaceAllString(line, "")
		line = bulletRe.ReplaceAllString(line, "$1")
		line = boldRe.ReplaceAllString(line, "$2")
		line = strings.ReplaceAll(line, "`", "")

		trimmed := strings.TrimSpace(line)
		for _, phrase := range clichePhrases {
			if strings.HasPrefix(trimmed, phrase) {
				trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, phrase))
				break
			}
		}

		out = append(out, trimmed)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// CleanHeadline normalizes a model-produced headline: no surrounding quotes,
// no trailing period, single-spaced.
func CleanHeadline(headline string) string {
	headline = strings.Join(strings.Fields(headline), " ")
	headline = strings.Trim(headline, `"'“”‘’«»`)
	headline = strings.TrimSuffix(headline, ".")
	return strings.TrimSpace(headline)
}

// ContainsArabic reports whether s contains any Arabic-script rune. Used to
// detect an untranslated headline.
func ContainsArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
