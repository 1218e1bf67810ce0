package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"sort"
	"strings"

	pkgerrors "github.com/angelmondragon/menuflow-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps decoded request bodies.
const maxBodyBytes = 1 << 20

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register slug validation: %v", err))
	}
	return v
}

// IsSlug reports whether value is lowercase alphanumerics joined by single dashes.
func IsSlug(value string) bool {
	return slugPattern.MatchString(value)
}

// DecodeJSONBody strictly decodes a single JSON value into dest and runs the
// validator tags on it. Unknown fields and trailing data are rejected.
func DecodeJSONBody(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dest)
	if err == nil && decoder.More() {
		err = errors.New("body must contain a single JSON value")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails([]pkgerrors.FieldError{decodeProblem(err)})
	}
	return ValidateStruct(dest)
}

// decodeProblem points at the offending field when encoding/json names one.
func decodeProblem(err error) pkgerrors.FieldError {
	var (
		typeErr *json.UnmarshalTypeError
		sizeErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return pkgerrors.FieldError{Field: typeErr.Field, Message: "must be " + typeErr.Type.String()}
	case errors.As(err, &sizeErr):
		return pkgerrors.FieldError{Field: "body", Message: fmt.Sprintf("must be at most %d bytes", sizeErr.Limit)}
	case errors.Is(err, io.EOF):
		return pkgerrors.FieldError{Field: "body", Message: "is required"}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return pkgerrors.FieldError{Field: name, Message: "is not allowed"}
	}
	return pkgerrors.FieldError{Field: "body", Message: err.Error()}
}

// ValidateStruct runs the validator tags on an already decoded value.
func ValidateStruct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
	details := make([]pkgerrors.FieldError, 0, len(errs))
	for _, fieldErr := range errs {
		details = append(details, pkgerrors.FieldError{
			Field:   fieldPath(fieldErr),
			Message: validationMessage(fieldErr),
		})
	}
	sort.SliceStable(details, func(i, j int) bool { return details[i].Field < details[j].Field })
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

// fieldPath drops the root struct name so nested fields read items[0].qty.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "slug":
		return "must contain only lowercase letters, digits and dashes"
	}
	return "is invalid"
}
