package enums

import "fmt"

// Theme is the display preference persisted from the profile page.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var validThemes = []Theme{
	ThemeLight,
	ThemeDark,
}

// String implements fmt.Stringer.
func (t Theme) String() string {
	return string(t)
}

// IsValid reports whether the value is a known Theme.
func (t Theme) IsValid() bool {
	for _, candidate := range validThemes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTheme converts raw input into a Theme.
func ParseTheme(value string) (Theme, error) {
	for _, candidate := range validThemes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid theme %q", value)
}
