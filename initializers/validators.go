package initializers

import (
	"strings"

	"github.com/Taraweeh/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// RegisterValidators adds the domain binding tags `area` and `night` to gin's validator.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		log.Warn().Msg("gin validator engine is not validator/v10, custom tags unavailable")
		return
	}

	if err := v.RegisterValidation("area", validArea); err != nil {
		log.Fatal().Err(err).Msg("failed to register area validator")
	}
	if err := v.RegisterValidation("night", validNight); err != nil {
		log.Fatal().Err(err).Msg("failed to register night validator")
	}
}

// validArea ignores surrounding whitespace; handlers store the trimmed value.
func validArea(fl validator.FieldLevel) bool {
	area := strings.TrimSpace(fl.Field().String())
	for _, a := range models.Areas {
		if a == area {
			return true
		}
	}
	return false
}

func validNight(fl validator.FieldLevel) bool {
	night := fl.Field().Int()
	return night >= 1 && night <= models.RamadanNights
}
