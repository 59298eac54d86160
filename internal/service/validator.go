package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})

	enum := func(valid func(string) bool) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		}
	}

	tags := map[string]validator.Func{
		"priority":       enum(func(s string) bool { return models.Priority(s).Valid() }),
		"backlog_status": enum(func(s string) bool { return models.BacklogStatus(s).Valid() }),
		"business_value": enum(func(s string) bool { return models.BusinessValue(s).Valid() }),
		"impact":         enum(func(s string) bool { return models.Impact(s).Valid() }),
		"bug_status":     enum(func(s string) bool { return models.BugStatus(s).Valid() }),
		"role":           enum(func(s string) bool { return models.Role(s).Valid() }),
		// empty clears a nullable reference
		"optional_uuid": enum(func(s string) bool {
			if s == "" {
				return true
			}
			_, err := uuid.Parse(s)
			return err == nil
		}),
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return v
}

// check validates req and flattens field errors into one readable error.
func (s *Service) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Field(), fe.Tag()))
	}

	return errors.New(strings.Join(msgs, "; "))
}

func (s *Service) checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid id %q", id)
	}
	return nil
}
