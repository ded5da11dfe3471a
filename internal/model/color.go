package model

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultBoardColor  = "#3B82F6"
	DefaultColumnColor = "#6B7280"
)

// Palette maps the named column colors to their hex form. Hex is what gets stored.
var Palette = map[string]string{
	"blue":   "#3B82F6",
	"red":    "#EF4444",
	"green":  "#22C55E",
	"purple": "#9333EA",
	"yellow": "#EAB308",
	"indigo": "#6366F1",
	"pink":   "#EC4899",
}

// PaletteOrder is the display order of Palette.
var PaletteOrder = []string{"blue", "red", "green", "purple", "yellow", "indigo", "pink"}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NormalizeColor accepts a palette name or a hex string and returns upper-case hex.
// Empty input yields fallback.
func NormalizeColor(raw, fallback string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return fallback, nil
	}
	if hex, ok := Palette[strings.ToLower(value)]; ok {
		return hex, nil
	}
	if !hexColorPattern.MatchString(value) {
		return "", fmt.Errorf("invalid color %q: use a hex value like #3B82F6 or one of %s", raw, strings.Join(PaletteOrder, ", "))
	}
	return strings.ToUpper(value[:1]) + strings.ToUpper(value[1:]), nil
}

// ColorName returns the palette name for a hex color, or "" when it is not a palette color.
func ColorName(hex string) string {
	for _, name := range PaletteOrder {
		if strings.EqualFold(Palette[name], hex) {
			return name
		}
	}
	return ""
}

type DefaultColumn struct {
	Name  string
	Color string
}

// DefaultColumns are created with every new board.
var DefaultColumns = []DefaultColumn{
	{Name: "To Do", Color: "#3B82F6"},
	{Name: "Doing", Color: "#F59E0B"},
	{Name: "Done", Color: "#10B981"},
}
