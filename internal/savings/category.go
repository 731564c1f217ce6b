// internal/savings/category.go
package savings

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"savings-tracker/internal/domain"
)

// MaxCategoryLen is counted in characters after cleanup.
const MaxCategoryLen = 64

// sanitizeString collapses whitespace runs (NBSP included) and drops control characters.
func sanitizeString(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			result = append(result, ' ')
		case unicode.IsControl(r):
		default:
			result = append(result, r)
		}
	}
	return strings.Join(strings.Fields(string(result)), " ")
}

func normalizeCategory(raw string) (string, error) {
	category := sanitizeString(raw)
	if category == "" {
		return domain.DefaultCategory, nil
	}
	if utf8.RuneCountInString(category) > MaxCategoryLen {
		return "", domain.NewValidationError("category",
			fmt.Sprintf("Category must be at most %d characters", MaxCategoryLen))
	}
	return category, nil
}
