package service

import (
	"reflect"
	"strings"

	"github.com/Sintu8737/timesheet/internal"
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
)

var fieldLabels = map[string]string{
	"weekNumber":  "Week number",
	"date":        "Date",
	"project":     "Project",
	"typeOfWork":  "Type of work",
	"description": "Description",
	"hours":       "Hours",
}

// newValidator returns a validator that names fields by their JSON tag and knows the
// catalog-backed "project" and "worktype" tags.
func newValidator(catalog internal.Catalog) (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("project", func(fl validator.FieldLevel) bool {
		return catalog.HasProject(fl.Field().String())
	}); err != nil {
		return nil, errors.Trace(err)
	}
	if err := v.RegisterValidation("worktype", func(fl validator.FieldLevel) bool {
		return catalog.HasWorkType(fl.Field().String())
	}); err != nil {
		return nil, errors.Trace(err)
	}
	return v, nil
}

// validateStruct runs v over s and converts failures into an *internal.ValidationError.
func validateStruct(v *validator.Validate, catalog internal.Catalog, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Trace(err)
	}
	ve := internal.NewValidationError()
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), fieldMessage(fe, catalog))
	}
	return ve
}

func fieldMessage(fe validator.FieldError, catalog internal.Catalog) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		if fe.Field() == "hours" {
			return "Hours are required"
		}
		return label + " is required"
	case "project":
		return "Project must be one of: " + strings.Join(catalog.Projects, ", ")
	case "worktype":
		return "Type of work must be one of: " + strings.Join(catalog.WorkTypes, ", ")
	case "gt":
		return label + " must be greater than " + fe.Param()
	case "lte":
		return label + " cannot exceed " + fe.Param()
	case "min", "max":
		if fe.Field() == "description" {
			return "Description is required"
		}
		return label + " must be between 1 and 53"
	case "datetime":
		return label + " must be a valid date (YYYY-MM-DD)"
	}
	return label + " is invalid"
}
