// Package validation checks construction-time simulation data before it
// reaches the physics core.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl64"
)

// Limits on configuration values
const (
	MaxNameLen = 32
)

// Allow alphanumeric, spaces, hyphens, underscores, and basic punctuation in names
var validNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.()]+$`)

// ValidateName validates and trims an entity name
func ValidateName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}

	if len(name) > MaxNameLen {
		return "", fmt.Errorf("name too long: %d characters (max %d)", len(name), MaxNameLen)
	}

	if !utf8.ValidString(name) {
		return "", fmt.Errorf("name contains invalid UTF-8 characters")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("name cannot be only whitespace")
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("name contains control characters")
		}
	}

	if !validNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("name %q contains invalid characters", trimmed)
	}

	return trimmed, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidatePositive checks that a named quantity is finite and greater than zero
func ValidatePositive(field string, v float64) error {
	if !finite(v) || v <= 0 {
		return fmt.Errorf("%s must be positive: %v", field, v)
	}
	return nil
}

// ValidateNonNegative checks that a named quantity is finite and not negative
func ValidateNonNegative(field string, v float64) error {
	if !finite(v) || v < 0 {
		return fmt.Errorf("%s cannot be negative: %v", field, v)
	}
	return nil
}

// ValidateVector checks that every component is finite
func ValidateVector(field string, v mgl64.Vec3) error {
	for i, c := range v {
		if !finite(c) {
			return fmt.Errorf("%s[%d] is not finite: %v", field, i, c)
		}
	}
	return nil
}

// ValidateDirection checks that v is finite and has a usable length
func ValidateDirection(field string, v mgl64.Vec3) error {
	if err := ValidateVector(field, v); err != nil {
		return err
	}
	if v.Len() < 1e-9 {
		return fmt.Errorf("%s must not be the zero vector", field)
	}
	return nil
}

// ValidateTimestep checks a tick length against max. A max of zero means
// no upper limit.
func ValidateTimestep(dt, max float64) error {
	if !finite(dt) || dt <= 0 {
		return fmt.Errorf("timestep must be positive: %v", dt)
	}
	if max > 0 && dt > max {
		return fmt.Errorf("timestep too large: %v (max %v)", dt, max)
	}
	return nil
}

// ClampTimestep limits dt to (0, max], or (0, +inf) when max is zero.
// Non-finite or non-positive values become zero so the tick is a no-op.
func ClampTimestep(dt, max float64) float64 {
	if !finite(dt) || dt <= 0 {
		return 0
	}
	if max > 0 && dt > max {
		return max
	}
	return dt
}
