package rate

import (
	"errors"
	"fmt"
	"regexp"

	"ratehub/internal/domain"
)

var (
	ErrBaseRequired   = errors.New("base currency is required")
	ErrTargetRequired = errors.New("target currency is required")
	ErrSameCodes      = errors.New("base and target must be different")
	ErrCodeFormat     = errors.New("currency code must be three letters")
)

var codePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCode checks a single code against the format and the catalog.
func ValidateCode(code string) error {
	if code == "" {
		return ErrBaseRequired
	}
	if !codePattern.MatchString(code) {
		return ErrCodeFormat
	}
	if !domain.IsSupported(code) {
		return fmt.Errorf("%w: %q", domain.ErrCurrencyUnsupported, code)
	}
	return nil
}

// ValidatePair checks a base/target pair for history and conversion lookups.
func ValidatePair(base, target string) error {
	if base == "" {
		return ErrBaseRequired
	}
	if target == "" {
		return ErrTargetRequired
	}
	if base == target {
		return ErrSameCodes
	}
	if err := ValidateCode(base); err != nil {
		return err
	}
	if err := ValidateCode(target); err != nil {
		return err
	}
	return nil
}
