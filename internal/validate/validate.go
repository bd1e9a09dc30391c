package validate

import (
	"errors"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"kustomkeys/internal/domain"
)

var reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ID validates a resource identifier taken from the URL (uuid or ObjectID hex).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reID.MatchString(s)
}

type FieldError struct {
	Field   string
	Message string
}

// Errors keeps the order in which fields were checked.
type Errors []FieldError

func (e Errors) For(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

func (e *Errors) Add(field, msg string) { *e = append(*e, FieldError{Field: field, Message: msg}) }

var rules = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
	})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.GreaterThanOrEqual(minPrice)
	})
	_ = v.RegisterValidation("pricecap", func(fl validator.FieldLevel) bool {
		return belowPriceCap(fl.Field().String())
	})
	_ = v.RegisterValidation("condition", func(fl validator.FieldLevel) bool {
		return domain.Condition(fl.Field().String()).Valid()
	})
	return v
}

// Prices are stored as Decimal128 in Mongo, so both the magnitude and the digit count are bounded.
var (
	minPrice = decimal.New(1, -2)
	maxPrice = decimal.New(1, 9)
)

const maxPriceLen = 32

func belowPriceCap(s string) bool {
	if len(s) > maxPriceLen {
		return false
	}
	d, err := decimal.NewFromString(s)
	return err != nil || d.LessThan(maxPrice)
}

func parsePrice(s string) (decimal.Decimal, bool) {
	if len(s) > maxPriceLen {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.LessThan(minPrice) || !d.LessThan(maxPrice) {
		return decimal.Decimal{}, false
	}
	return d, true
}

// messages maps "field.tag" to the text shown next to the form field.
type messages map[string]string

// check runs every rule on every field of in (which must hold trimmed values) and
// collects one message per failing field.
func check(in any, msgs messages) Errors {
	errs := Errors{}
	err := rules.Struct(in)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs
	}
	for _, fe := range verrs {
		msg, ok := msgs[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		errs.Add(fe.Field(), msg)
	}
	return errs
}

func trimAll(ss ...*string) {
	for _, s := range ss {
		*s = strings.TrimSpace(*s)
	}
}

func escapeAll(ss ...*string) {
	for _, s := range ss {
		*s = html.EscapeString(*s)
	}
}
