package usecase

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/storerating/internal/domain/errors"
	"github.com/polkiloo/storerating/internal/domain/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type storeFields struct {
	Name       string   `validate:"required"`
	Address    string   `validate:"required"`
	Rating     *float64 `validate:"required,gte=0,lte=5"`
	UserRating *float64 `validate:"required,gte=0,lte=5"`
}

// ValidateEmail checks the address syntax.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return domainErrors.ErrInvalidEmail
	}
	return nil
}

// ValidateStoreDraft trims the draft and checks presence and rating bounds.
func ValidateStoreDraft(draft *model.StoreDraft) error {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Address = strings.TrimSpace(draft.Address)

	err := validate.Struct(storeFields{
		Name:       draft.Name,
		Address:    draft.Address,
		Rating:     draft.Rating,
		UserRating: draft.UserRating,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return domainErrors.ErrMissingField
		}
	}
	return domainErrors.ErrInvalidRating
}
