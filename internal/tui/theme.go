// Package tui provides terminal user interface components.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// ThemeEnv names a colors.toml file that overrides the user theme.
const ThemeEnv = "POCKETLIST_THEME"

// ResolveTheme loads a theme with the following precedence:
//  1. NO_COLOR env var set → NoColorTheme
//  2. POCKETLIST_THEME env var → that colors.toml file
//  3. User theme from ~/.config/pocketlist/theme/colors.toml
//  4. Default theme
//
// The theme directory may be a symlink into another theme system.
func ResolveTheme() Theme {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return NoColorTheme()
	}

	if path := os.Getenv(ThemeEnv); path != "" {
		if theme, err := LoadThemeFromFile(path); err == nil {
			return theme
		}
	}

	if theme, err := LoadUserTheme(); err == nil {
		return theme
	}

	return DefaultTheme()
}

// NoColorTheme returns a theme with empty colors.
// Lipgloss treats empty strings as "no color".
func NoColorTheme() Theme {
	empty := lipgloss.AdaptiveColor{}
	return Theme{
		Primary:    empty,
		Secondary:  empty,
		Success:    empty,
		Warning:    empty,
		Error:      empty,
		Muted:      empty,
		Background: empty,
		Foreground: empty,
		Border:     empty,
	}
}

// UserThemePath is where LoadUserTheme looks for colors.toml.
func UserThemePath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pocketlist", "theme", "colors.toml"), nil
}

// LoadUserTheme loads the user's colors.toml.
func LoadUserTheme() (Theme, error) {
	path, err := UserThemePath()
	if err != nil {
		return Theme{}, err
	}
	return LoadThemeFromFile(path)
}

// LoadThemeFromFile parses a colors.toml file and returns a Theme.
func LoadThemeFromFile(path string) (Theme, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path from trusted config
	if err != nil {
		return Theme{}, err
	}

	colors, err := parseColors(data)
	if err != nil {
		return Theme{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return mapColorsToTheme(colors), nil
}

// parseColors reads top-level string keys holding hex colors. Tables and
// non-color values are ignored so full terminal theme files load as-is.
func parseColors(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	result := make(map[string]string)
	for key, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if isValidHexColor(s) {
			result[key] = s
		}
	}
	return result, nil
}

// isValidHexColor checks if a string is a valid hex color (#RGB or #RRGGBB).
func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	for _, c := range hex {
		isDigit := c >= '0' && c <= '9'
		isLower := c >= 'a' && c <= 'f'
		isUpper := c >= 'A' && c <= 'F'
		if !isDigit && !isLower && !isUpper {
			return false
		}
	}
	return true
}

// mapColorsToTheme maps colors.toml names onto theme roles.
//
//	accent, color4  → Primary
//	color7          → Secondary
//	color2          → Success
//	color3          → Warning
//	color1          → Error
//	color8, color0  → Muted, Border
//	background      → Background
//	foreground      → Foreground
//
// Terminal themes are usually dark, so only Dark variants are replaced.
func mapColorsToTheme(colors map[string]string) Theme {
	defaults := DefaultTheme()

	pick := func(def lipgloss.AdaptiveColor, keys ...string) lipgloss.AdaptiveColor {
		for _, k := range keys {
			if v, ok := colors[k]; ok {
				return lipgloss.AdaptiveColor{Light: def.Light, Dark: v}
			}
		}
		return def
	}

	return Theme{
		Primary:    pick(defaults.Primary, "accent", "color4"),
		Secondary:  pick(defaults.Secondary, "color7"),
		Success:    pick(defaults.Success, "color2"),
		Warning:    pick(defaults.Warning, "color3"),
		Error:      pick(defaults.Error, "color1"),
		Muted:      pick(defaults.Muted, "color8", "color0"),
		Background: pick(defaults.Background, "background"),
		Foreground: pick(defaults.Foreground, "foreground"),
		Border:     pick(defaults.Border, "color8", "color0"),
	}
}
