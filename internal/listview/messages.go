package listview

import "math/rand/v2"

var emptyMessages = []string{
	"No Pokémon found… they're probably hiding in tall grass.",
	"No Pokémon here… maybe they all fainted?",
	"No Pokémon found. Did Team Rocket steal them again?",
	"Area empty. Even Zubat didn't show up (that's rare).",
	"Looks like this patch of grass is empty.",
	"No Pokémon found… try a different route?",
	"No Pokémon found… they might be out of season.",
	"Empty area. A wild MissingNo. appeared instead!",
	"No Pokémon here… maybe they're in the underground?",
	"No Pokémon found. Did you forget your Poké Flute?",
}

// EmptyMessages returns a copy of the empty-catalog pool.
func EmptyMessages() []string {
	return append([]string(nil), emptyMessages...)
}

// RandomEmptyMessage draws one message from the pool.
func RandomEmptyMessage() string {
	return emptyMessages[rand.IntN(len(emptyMessages))]
}
