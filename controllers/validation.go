package controllers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const weekdayTag = "weekday"

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request models.
// It must run before any request is bound.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation(weekdayTag, func(fl validator.FieldLevel) bool {
			d := fl.Field().Int()
			return d >= 0 && d <= 6
		})
	})
}
