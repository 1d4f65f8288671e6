// Package captcha maps the Telegram slot-machine dice value to the three reel
// symbols a human sees when the animation stops.
//
// Integration assumption: Telegram renders the 🎰 dice so that value v shows
// reels (v-1)&3, ((v-1)>>2)&3 and ((v-1)>>4)&3 of Alphabet, left to right.
// Nothing here can verify that; if Telegram ever changes the rendering the
// challenge becomes unsolvable for humans.
package captcha

import "strings"

// SlotMachineEmoji is the dice emoji whose animation carries the challenge.
const SlotMachineEmoji = "🎰"

const (
	MinCode = 1
	MaxCode = 64
)

// Alphabet: символы барабана в порядке индексов 0..3.
var Alphabet = [4]string{"BAR", "🍇", "🍋", "7️⃣"}

// Answer is an ordered triple of Alphabet indices.
type Answer [3]int

// DeriveAnswer returns the reel symbols for a dice value in [1,64].
func DeriveAnswer(code int) Answer {
	n := code - 1
	return Answer{
		n & 0b000011,
		(n & 0b001100) >> 2,
		(n & 0b110000) >> 4,
	}
}

// ValidCode reports whether code is a possible slot-machine value.
func ValidCode(code int) bool {
	return code >= MinCode && code <= MaxCode
}

// Matches compares the submitted indices element-wise, in order.
func (a Answer) Matches(input []int) bool {
	if len(input) != len(a) {
		return false
	}
	for i := range a {
		if a[i] != input[i] {
			return false
		}
	}
	return true
}

// SymbolIndex maps keyboard text back to its alphabet index.
func SymbolIndex(text string) (int, bool) {
	text = strings.TrimSpace(text)
	for i, s := range Alphabet {
		if s == text {
			return i, true
		}
	}
	// клиенты иногда присылают 7️⃣ без variation selector
	if text == "7⃣" {
		return 3, true
	}
	return 0, false
}

// Labels renders indices as alphabet symbols; out-of-range indices are skipped.
func Labels(indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(Alphabet) {
			out = append(out, Alphabet[i])
		}
	}
	return out
}
