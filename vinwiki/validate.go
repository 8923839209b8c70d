package vinwiki

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Input bounds enforced before any network call
const (
	VINLength      = 17
	MaxPlateLength = 30
	MaxRegionCode  = 3
	MinQueryLength = 3
)

var (
	vinRules     = []validation.Rule{validation.Required, validation.Length(VINLength, VINLength)}
	plateRules   = []validation.Rule{validation.Required, validation.Length(1, MaxPlateLength)}
	regionRules  = []validation.Rule{validation.Required, validation.Length(1, MaxRegionCode)}
	queryRules   = []validation.Rule{validation.Required, validation.Length(MinQueryLength, 0)}
	requiredRule = []validation.Rule{validation.Required}
)

// ValidVIN reports whether vin has the length VINwiki accepts. No checksum
// is computed.
func ValidVIN(vin string) bool {
	return validation.Validate(vin, vinRules...) == nil
}

// checkInput turns a set of per-field validation results into a
// KindValidation error, or nil when every field passed.
func checkInput(op string, fields validation.Errors) error {
	if err := fields.Filter(); err != nil {
		return newError(KindValidation, op, ErrValidation.Message, err)
	}
	return nil
}

func checkVIN(op, vin string) error {
	return checkInput(op, validation.Errors{
		"vin": validation.Validate(vin, vinRules...),
	})
}
