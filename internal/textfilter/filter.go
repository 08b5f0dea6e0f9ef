package textfilter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const urlPlaceholder = "[URL REMOVED]"

var urlRegex = regexp.MustCompile(`https?://\S+|www\.\S+`)

// RedactBanwords masks every case-insensitive occurrence of each banword
// in text with an equal-length run of '*'. Words are matched as literal
// substrings, not whole words. A word that fails to compile is skipped
// so one bad entry cannot break filtering for the rest of the list.
func RedactBanwords(text string, banwords []string) string {
	if text == "" || len(banwords) == 0 {
		return text
	}

	filtered := text
	for _, word := range banwords {
		if word == "" {
			continue
		}

		pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(word))
		if err != nil {
			continue
		}

		mask := strings.Repeat("*", utf8.RuneCountInString(word))
		filtered = pattern.ReplaceAllString(filtered, mask)
	}

	return filtered
}

// RedactURLs replaces every http(s)://... or www.... token in text with
// a fixed placeholder.
func RedactURLs(text string) string {
	if text == "" {
		return text
	}
	return urlRegex.ReplaceAllString(text, urlPlaceholder)
}

// Apply runs the banword pass and then, if filterURLs is set, the URL
// pass. Banwords go first so a banword inside a URL is masked before the
// URL itself is collapsed into the placeholder.
func Apply(text string, banwords []string, filterURLs bool) string {
	filtered := RedactBanwords(text, banwords)
	if filterURLs {
		filtered = RedactURLs(filtered)
	}
	return filtered
}
