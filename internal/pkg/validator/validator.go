package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Promotion type validation
	validate.RegisterValidation("promotion_type", func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		validTypes := []string{"PERCENTAGE", "FIXED_AMOUNT", "BUY_X_GET_Y"}
		for _, v := range validTypes {
			if t == v {
				return true
			}
		}
		return false
	})

	// Promotion target type validation
	validate.RegisterValidation("target_type", func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		validTypes := []string{"ALL", "PRODUCT", "CATEGORY", ""}
		for _, v := range validTypes {
			if t == v {
				return true
			}
		}
		return false
	})

	// Return type validation
	validate.RegisterValidation("return_type", func(fl validator.FieldLevel) bool {
		t := fl.Field().String()
		validTypes := []string{"RETURN", "EXCHANGE", ""}
		for _, v := range validTypes {
			if t == v {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "uuid":
			errors[field] = "Invalid identifier format"
		case "promotion_type":
			errors[field] = "Invalid promotion type. Must be: PERCENTAGE, FIXED_AMOUNT, or BUY_X_GET_Y"
		case "target_type":
			errors[field] = "Invalid target type. Must be: ALL, PRODUCT, or CATEGORY"
		case "return_type":
			errors[field] = "Invalid return type. Must be: RETURN or EXCHANGE"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
