package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidHighways enumerates the highway codes a user or incident may carry.
var ValidHighways = []string{
	"NH-1", "NH-2", "NH-4", "NH-5", "NH-6", "NH-7", "NH-8",
	"NH-10", "NH-19", "NH-24", "NH-27", "NH-44", "NH-48",
	"NH-52", "NH-58", "NH-66", "NH-71", "NH-76", "NH-92",
	"NH-104", "NH-148", "Other",
}

var (
	employeeIDPattern = regexp.MustCompile(`^[A-Z]{2,5}\d{3,6}$`)
	phonePattern      = regexp.MustCompile(`^[6-9]\d{9}$`)
	alphaSpacePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// IsValidEmployeeID reports whether the (already uppercased) employee ID
// matches the 2-5 letters + 3-6 digits format.
func IsValidEmployeeID(id string) bool {
	return employeeIDPattern.MatchString(id)
}

// New returns a validator with the domain's custom rules registered. Field
// names in validation errors follow the struct's json tags.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "employeeid", func(fl validator.FieldLevel) bool {
		return IsValidEmployeeID(strings.ToUpper(fl.Field().String()))
	})
	mustRegister(v, "inphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpacePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "strongpwd", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	mustRegister(v, "highway", func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		for _, h := range ValidHighways {
			if value == h {
				return true
			}
		}
		return false
	})
	mustRegister(v, "latitude", func(fl validator.FieldLevel) bool {
		lat, ok := fieldFloat(fl)
		return ok && lat >= -90 && lat <= 90
	})
	mustRegister(v, "longitude", func(fl validator.FieldLevel) bool {
		lng, ok := fieldFloat(fl)
		return ok && lng >= -180 && lng <= 180
	})
	mustRegister(v, "kmmark", func(fl validator.FieldLevel) bool {
		km, ok := fieldFloat(fl)
		return ok && km >= 0
	})

	return v
}

// fieldFloat reads a numeric field that may arrive as a raw form string.
func fieldFloat(fl validator.FieldLevel) (float64, bool) {
	field := fl.Field()
	if field.Kind() == reflect.String {
		f, err := strconv.ParseFloat(strings.TrimSpace(field.String()), 64)
		return f, err == nil
	}
	return field.Float(), true
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Minimum 8 chars drawn from the allowed charset, with at least one lower,
// one upper, one digit and one of @$!%*?&.
func isStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// Fields flattens validator errors into a field-keyed message map. Messages
// are looked up by "field.tag" first, then "field"; unmapped violations get
// a generic message. All violations are reported together, one per field.
func Fields(err error, messages map[string]string) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			fields[field] = msg
			continue
		}
		if msg, ok := messages[field]; ok {
			fields[field] = msg
			continue
		}
		fields[field] = fmt.Sprintf("%s is invalid", field)
	}
	return fields
}
