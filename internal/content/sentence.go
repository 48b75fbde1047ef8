package content

import "unicode"

func isSentenceTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '…':
		return true
	}
	return false
}

// FindLastSentenceEnd returns the rune index of the last sentence-ending
// character ('.', '!', '?' or '…') in text at or before from, or -1.
// A terminal only ends a sentence when it is the last character of text or
// is followed by whitespace. Abbreviation-like runs such as "c.d." are not
// sentence ends. A from beyond the end of text searches the whole text.
func FindLastSentenceEnd(text string, from int) int {
	return lastSentenceEnd([]rune(text), from)
}

func lastSentenceEnd(r []rune, from int) int {
	if from >= len(r) {
		from = len(r) - 1
	}
	for i := from; i >= 0; i-- {
		if !isSentenceTerminal(r[i]) {
			continue
		}
		if i < len(r)-1 && !unicode.IsSpace(r[i+1]) {
			continue
		}
		if i >= 2 && !unicode.IsSpace(r[i-1]) && isSentenceTerminal(r[i-2]) {
			continue
		}
		return i
	}
	return -1
}

// LastIndexOfSpace returns the rune index of the last ' ' in text at or
// before from, or -1.
func LastIndexOfSpace(text string, from int) int {
	return lastIndexOfSpace([]rune(text), from)
}

func lastIndexOfSpace(r []rune, from int) int {
	if from >= len(r) {
		from = len(r) - 1
	}
	for i := from; i >= 0; i-- {
		if r[i] == ' ' {
			return i
		}
	}
	return -1
}
