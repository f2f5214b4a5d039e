package util

import (
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var colorsOptions = map[string]color.Attribute{
	"red":       color.FgHiRed,
	"green":     color.FgGreen,
	"yellow":    color.FgYellow,
	"cyan":      color.FgCyan,
	"faint":     color.Faint,
	"underline": color.Underline,
	"bold":      color.Bold,
	"bgRed":     color.BgRed,
	"bgGreen":   color.BgGreen,
}

func ColorOutput(text string, colorOptions ...string) string {
	attributes := []color.Attribute{}
	for _, option := range colorOptions {
		if o, ok := colorsOptions[option]; ok {
			attributes = append(attributes, o)
		}
	}
	c := color.New(attributes...)
	return c.Sprint(text)
}

// HexOutput renders text in a 24-bit colour given as "#RRGGBB". Malformed
// colours leave the text as is.
func HexOutput(text, hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != len("RRGGBB") {
		return text
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return text
	}
	return color.RGB(int(rgb>>16&0xFF), int(rgb>>8&0xFF), int(rgb&0xFF)).Sprint(text)
}
