package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const tagCalendarDay = "calendar_day"

type validatorSvc struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// inputValidator returns the lazily built validator with english translations.
func inputValidator() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		v.RegisterStructValidation(civilDayStructLevel, CivilDateTime{})
		_ = v.RegisterTranslation(tagCalendarDay, trans,
			func(ut ut.Translator) error {
				return ut.Add(tagCalendarDay, "{0} does not exist in that month", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T(tagCalendarDay, fe.Field())
				return msg
			},
		)

		vSvc = &validatorSvc{validate: v, translator: trans}
	})
	return vSvc
}

// civilDayStructLevel rejects days past the end of the month (31 April, 29 February 2023).
func civilDayStructLevel(sl validator.StructLevel) {
	c := sl.Current().Interface().(CivilDateTime)
	if c.Month < 1 || c.Month > 12 || c.Day < 1 {
		return // field tags report these
	}
	if c.Day > daysIn(c.Year, time.Month(c.Month)) {
		sl.ReportError(c.Day, "Day", "Day", tagCalendarDay, "")
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// check validates s and wraps any failure into sentinel.
func check(s any, sentinel error) error {
	svc := inputValidator()
	err := svc.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, m := range verrs.Translate(svc.translator) {
		msgs = append(msgs, m)
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", sentinel, strings.Join(msgs, "; "))
}
