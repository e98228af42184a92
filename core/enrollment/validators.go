package enrollment

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rekodi/core"
)

var (
	remarkTag  = "remark"
	remarkText = "must be one of " + strings.Join(Remarks, ", ")
)

// RegisterValidators registers the enrollment validators.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(remarkTag, remarkValidation)
	core.RegisterCustomTranslation(validate, translator, remarkTag, remarkText)
}

// remarkValidation only allows one of Remarks.
func remarkValidation(fl validator.FieldLevel) bool {
	return IsRemark(fl.Field().String())
}
