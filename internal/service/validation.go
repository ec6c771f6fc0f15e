package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

const (
	msgInvalidEmail    = "Invalid email address"
	msgInvalidPhone    = "Invalid phone number. Must be 10 digits."
	msgMissingDelivery = "Please fill in all required delivery fields."
	msgInvalidURL      = "Invalid URL"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("storeemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateCheckout reports every checkout form problem at once, keyed by
// email, phone and delivery.
func validateCheckout(v *validator.Validate, req *domain.CheckoutRequest) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &domain.ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		switch {
		case strings.Contains(fe.StructNamespace(), ".DeliveryInfo."):
			out.Fields["delivery"] = msgMissingDelivery
		case fe.Field() == "email":
			out.Fields["email"] = msgInvalidEmail
		case fe.Field() == "phone":
			out.Fields["phone"] = msgInvalidPhone
		default:
			out.Fields[fe.Field()] = "Invalid value"
		}
	}
	return out
}

func validateContact(v *validator.Validate, c *domain.SiteContact) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &domain.ValidationError{Fields: map[string]string{}}
	for _, fe := range verrs {
		if fe.Tag() == "storeemail" {
			out.Fields[fe.Field()] = msgInvalidEmail
			continue
		}
		out.Fields[fe.Field()] = msgInvalidURL
	}
	return out
}
