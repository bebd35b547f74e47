package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	mobileRe    = regexp.MustCompile(`^(\+20|0)?1[0125]\d{8}$`)
	employeesRe = regexp.MustCompile(`^[0-9]+-[0-9]+$`)
)

const passwordSpecials = "@$!%*?&"

// Init configures the global validator used by Gin's binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs the JSON tag-name func, aliases and custom tags on v.
//   - mobile: Egyptian mobile number, optional +20 or 0 prefix
//   - strongpwd: >= 8 chars of [A-Za-z0-9@$!%*?&] with lower, upper, digit and special
//   - employees: headcount range such as "11-20"
//   - objectid: 24-char hex ObjectID
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("employees", func(fl validator.FieldLevel) bool {
		return employeesRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})
	v.RegisterAlias("personname", "min=3,max=15")
}

// StrongPassword reports whether p has at least 8 characters drawn only from
// letters, digits and @$!%*?&, with at least one of each class.
func StrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	// ===== CUSTOM =====
	case "mobile":
		return "must be a valid mobile number"
	case "strongpwd":
		return "must be at least 8 characters with upper and lower case letters, a digit and one of " + passwordSpecials
	case "employees":
		return "must be a range such as 11-20"
	case "objectid":
		return "must be a valid id"
	case "personname":
		return "must be between 3 and 15 characters long"

	// ===== PRESENCE =====
	case "required":
		return "is required"
	case "required_without":
		return "is required when " + param + " is not present"
	case "required_without_all":
		return "is required when none of " + param + " are present"
	case "excluded_with":
		return "must be excluded when " + param + " is present"
	case "excluded_with_all":
		return "must be excluded when all of " + param + " are present"
	case "isdefault":
		return "must not be set"

	// ===== FORMAT =====
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "datetime":
		return "must match the format " + param
	case "alpha":
		return "must contain alphabetic characters only"
	case "alphanum":
		return "must contain alphanumeric characters only"

	// ===== SIZE =====
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		if kind == reflect.Slice {
			return "must contain at least " + param + " items"
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		if kind == reflect.Slice {
			return "must contain at most " + param + " items"
		}
		return "must be at most " + param + " characters long"
	case "gt":
		return "must be greater than " + param
	case "numeric", "number":
		return "must be numeric"

	// ===== COMPARISON =====
	case "eqfield":
		return "must be equal to " + param
	case "nefield":
		return "must be different from " + param
	case "oneof":
		return "must be one of: " + strings.Join(splitParams(param), ", ")
	case "dive":
		return "contains an invalid item"
	}

	if param != "" {
		return fmt.Sprintf("failed on %s=%s", tag, param)
	}
	return "failed on " + tag
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func splitParams(p string) []string {
	if p == "" {
		return nil
	}
	// Handle space-separated values
	parts := strings.Fields(p)
	if len(parts) > 1 {
		return parts
	}
	// Handle comma-separated values
	if strings.Contains(p, ",") {
		return strings.Split(p, ",")
	}
	return []string{p}
}
