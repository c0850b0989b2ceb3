package utils

import "strings"

// bannedWords is the fixed denylist. Matching is case-insensitive exact
// substring, including the common symbol-substitution spellings.
var bannedWords = []string{
	// profanity
	"fuck", "bitch", "piss", "cock", "dick", "pussy", "cunt", "twat", "whore", "slut",
	// symbol/leet variants
	"f*ck", "f**k", "fck", "fuk", "fuq", "fux",
	"b*tch", "b!tch", "b1tch", "bytch",
	"d*ck", "d!ck", "d1ck", "dik",
	"c*ck", "c0ck", "c1ck",
	"p*ssy", "p1ssy", "p!ssy",
	"c*nt", "c0nt", "c1nt",
	"tw*t", "tw1t",
	"wh*re", "wh0re", "wh1re",
	"sl*t", "sl1t", "sl0t",
	"sk@nk", "skank",
	// harassment and threats
	"rape", "r@pe", "molest", "m0lest",
	"retard", "ret@rd", "retarded",
	"faggot", "f@ggot", "fag",
	"tranny", "tr@nny",
	"kike", "k1ke",
	"wetback", "raghead", "towelhead",
}

// TextModeration is the verdict for a single free-text field.
type TextModeration struct {
	IsValid      bool     `json:"is_valid"`
	FilteredText string   `json:"filtered_text"`
	BannedWords  []string `json:"banned_words"`
}

// ItemsModeration is the verdict for a ranked item list.
type ItemsModeration struct {
	IsValid       bool     `json:"is_valid"`
	FilteredItems []string `json:"filtered_items"`
	BannedWords   []string `json:"banned_words"`
}

// bannedWordsIn returns every denylist entry found in text.
func bannedWordsIn(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, w := range bannedWords {
		if strings.Contains(lower, w) {
			found = append(found, w)
		}
	}
	return found
}

// redactBannedWords replaces each denylist match with an equal-length
// asterisk run, case-insensitively.
func redactBannedWords(text string) string {
	for _, w := range bannedWords {
		lower := strings.ToLower(text)
		for {
			idx := strings.Index(lower, w)
			if idx < 0 {
				break
			}
			text = text[:idx] + strings.Repeat("*", len(w)) + text[idx+len(w):]
			lower = strings.ToLower(text)
		}
	}
	return text
}

// ValidateText moderates one free-text field (a comment or report reason).
func ValidateText(content string) TextModeration {
	found := bannedWordsIn(content)
	return TextModeration{
		IsValid:      len(found) == 0,
		FilteredText: redactBannedWords(content),
		BannedWords:  found,
	}
}

// ValidateItems moderates a ranked item list in one pass, deduplicating the
// matched terms across items.
func ValidateItems(items []string) ItemsModeration {
	var matched []string
	filtered := make([]string, 0, len(items))
	for _, item := range items {
		found := bannedWordsIn(item)
		matched = append(matched, found...)
		if len(found) > 0 {
			filtered = append(filtered, redactBannedWords(item))
		} else {
			filtered = append(filtered, item)
		}
	}
	matched = UniqueStrings(matched)
	return ItemsModeration{
		IsValid:       len(matched) == 0,
		FilteredItems: filtered,
		BannedWords:   matched,
	}
}
