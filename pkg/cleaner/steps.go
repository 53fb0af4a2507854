package cleaner

import (
	"regexp"
	"sort"
	"strings"

	"github.com/forPelevin/gomoji"
)

var (
	reURL     = regexp.MustCompile(`http\S+|www\S+|https\S+`)
	reMention = regexp.MustCompile(`@[\p{L}\p{N}\p{Mn}_]+`)
	reHashtag = regexp.MustCompile(`#[\p{L}\p{N}\p{Mn}_]+`)
	reTagLike = regexp.MustCompile(`[@#][\p{L}\p{N}\p{Mn}_]+`)
	reNumber  = regexp.MustCompile(`\p{Nd}+`)
	reSpecial = regexp.MustCompile(`[^a-zA-Z0-9\s\x{0B}\p{Z}]`)
)

// ProcessEmojis removes emojis, or replaces each one with replacement.
// Removal wins when both are set.
func ProcessEmojis(text string, remove, replace bool, replacement string) string {
	switch {
	case remove:
		return replaceEmojis(text, "")
	case replace:
		return replaceEmojis(text, replacement)
	}
	return text
}

func replaceEmojis(text, with string) string {
	found := gomoji.FindAll(text)
	if len(found) == 0 {
		return text
	}
	chars := make([]string, 0, len(found))
	seen := make(map[string]bool, len(found))
	for _, e := range found {
		if e.Character == "" || seen[e.Character] {
			continue
		}
		seen[e.Character] = true
		chars = append(chars, e.Character)
	}
	// Longest first so ZWJ and modifier sequences match before their parts.
	sort.SliceStable(chars, func(i, j int) bool { return len(chars[i]) > len(chars[j]) })

	pairs := make([]string, 0, 2*len(chars))
	for _, c := range chars {
		pairs = append(pairs, c, with)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// ProcessURLs removes or replaces anything starting with http or www up to
// the next whitespace.
func ProcessURLs(text string, remove, replace bool, replacement string) string {
	return processPattern(reURL, text, remove, replace, replacement)
}

// ProcessMentionsAndHashtags removes both @mentions and #hashtags, or
// replaces each kind with its own placeholder.
func ProcessMentionsAndHashtags(text string, remove, replaceMentions, replaceHashtags bool, mentionReplacement, hashtagReplacement string) string {
	if remove {
		return reTagLike.ReplaceAllLiteralString(text, "")
	}
	if replaceMentions {
		text = reMention.ReplaceAllLiteralString(text, mentionReplacement)
	}
	if replaceHashtags {
		text = reHashtag.ReplaceAllLiteralString(text, hashtagReplacement)
	}
	return text
}

// ProcessNumbers removes or replaces each run of decimal digits.
func ProcessNumbers(text string, remove, replace bool, replacement string) string {
	return processPattern(reNumber, text, remove, replace, replacement)
}

// ProcessSpecialCharacters removes or replaces every character that is not
// an ASCII letter, an ASCII digit or whitespace.
func ProcessSpecialCharacters(text string, remove, replace bool, replacement string) string {
	return processPattern(reSpecial, text, remove, replace, replacement)
}

func processPattern(re *regexp.Regexp, text string, remove, replace bool, replacement string) string {
	switch {
	case remove:
		return re.ReplaceAllLiteralString(text, "")
	case replace:
		return re.ReplaceAllLiteralString(text, replacement)
	}
	return text
}
