package detailview

import (
	"fmt"
	"strings"

	"github.com/pders01/dex/internal/pokeapi"
)

type StatLine struct {
	Label string
	Value int
}

// Card is a Detail with every field already formatted for display.
type Card struct {
	ID          string
	Number      string
	Name        string
	Types       []string
	Sprite      string
	Height      string
	Weight      string
	CaptureRate string
	Stats       []StatLine
}

func NewCard(d *pokeapi.Detail) Card {
	c := Card{
		ID:          d.ID,
		Number:      FormatNumber(d.ID),
		Name:        d.Name,
		Types:       d.Types,
		Sprite:      d.Sprite,
		Height:      FormatHeight(d.Height),
		Weight:      FormatWeight(d.Weight),
		CaptureRate: FormatCaptureRate(d.CaptureRate),
	}
	if c.Name == "" {
		c.Name = "Unknown"
	}
	for _, s := range d.Stats {
		c.Stats = append(c.Stats, StatLine{Label: FormatStatName(s.Name), Value: s.BaseValue})
	}
	return c
}

// Markdown renders the card for glamour.
func (c Card) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", c.Name)
	fmt.Fprintf(&b, "**%s**", c.Number)
	if len(c.Types) > 0 {
		fmt.Fprintf(&b, " · %s", strings.Join(c.Types, " / "))
	}
	b.WriteString("\n\n")

	b.WriteString("| Height | Weight | Capture Rate |\n")
	b.WriteString("|--------|--------|--------------|\n")
	fmt.Fprintf(&b, "| %s | %s | %s |\n\n", c.Height, c.Weight, c.CaptureRate)

	if len(c.Stats) > 0 {
		b.WriteString("## Base Stats\n\n")
		for _, s := range c.Stats {
			fmt.Fprintf(&b, "- **%s**: %d\n", s.Label, s.Value)
		}
		b.WriteString("\n")
	}

	if c.Sprite != "" {
		fmt.Fprintf(&b, "Artwork: %s\n", c.Sprite)
	}
	return b.String()
}
