// package locale implements script classification and phonetic sort key derivation
package locale

import (
	"strings"

	"github.com/mozillazg/go-pinyin"
)

// sortKeyArgs maps each Han character to the first letter of its pinyin
// reading; every other rune passes through as itself.
var sortKeyArgs = func() pinyin.Args {
	a := pinyin.NewArgs()
	a.Style = pinyin.FirstLetter
	a.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}
	return a
}()

// punctStripper removes the fixed set of full-width and half-width punctuation
// marks from derived sort keys. The set is load-bearing for output
// compatibility with sort titles written by earlier releases.
var punctStripper = strings.NewReplacer(
	"：", "", "（", "", "）", "", "，", "", "！", "", "？", "", "。", "",
	"；", "", "·", "", "-", "", "／", "", ",", "", "…", "", "!", "",
	"?", "", ".", "", ":", "", ";", "", "～", "", "~", "", "・", "",
)

// HasCJK reports whether any rune falls in the CJK Unified Ideographs block.
func HasCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4e00 && r <= 0x9fff {
			return true
		}
	}
	return false
}

// IsLocalized reports whether the text needs no sort key conversion.
//
// The interpunct is stripped first, then the text counts as localized iff it
// contains no CJK ideograph and no rune in the Hiragana/Katakana block. Latin
// script passes; Chinese and Japanese (including kana-only titles) do not.
func IsLocalized(s string) bool {
	s = strings.ReplaceAll(s, "・", "")
	if HasCJK(s) {
		return false
	}
	for _, r := range s {
		if r >= 0x3040 && r <= 0x30ff {
			return false
		}
	}
	return true
}

// SortKey derives the phonetic sort key for a title: the uppercase first
// letter of each character's pinyin reading, concatenated, with the fixed
// punctuation set stripped. Pure and deterministic.
func SortKey(s string) string {
	var b strings.Builder
	for _, readings := range pinyin.Pinyin(s, sortKeyArgs) {
		if len(readings) == 0 {
			continue
		}
		b.WriteString(strings.ToUpper(readings[0]))
	}
	return punctStripper.Replace(b.String())
}
