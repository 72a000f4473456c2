// Package validation checks color values produced by backends.
package validation

import (
	"fmt"
	"regexp"

	"github.com/bnema/walcache/internal/domain/entity"
)

var hexColorRE = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsHexColor reports whether value is a #RRGGBB color.
func IsHexColor(value string) bool {
	return hexColorRE.MatchString(value)
}

// ValidateArtifact returns one message per color that is not #RRGGBB.
// A nil artifact yields a single message.
func ValidateArtifact(a *entity.Artifact) []string {
	if a == nil {
		return []string{"artifact is nil"}
	}

	var errs []string
	check := func(field, value string) {
		if !IsHexColor(value) {
			errs = append(errs, fmt.Sprintf("%s must be a hex color like #RRGGBB, got %q", field, value))
		}
	}

	check("special.background", a.Special.Background)
	check("special.foreground", a.Special.Foreground)
	check("special.cursor", a.Special.Cursor)
	for i, c := range a.Colors {
		check(fmt.Sprintf("colors.color%d", i), c)
	}
	return errs
}
