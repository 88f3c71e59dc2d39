package rsvp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/AlexTLDR/hawkins/internal/database"
	"github.com/AlexTLDR/hawkins/internal/i18n"
	"github.com/AlexTLDR/hawkins/internal/utils"
	"github.com/go-playground/validator/v10"
)

// quantitySubmission is the variant A form.
type quantitySubmission struct {
	Name          string `json:"name" validate:"required,min=2,max=80"`
	Phone         string `json:"phone" validate:"max=30"`
	Status        string `json:"status" validate:"required,oneof=YES NO MAYBE"`
	AdditionalQty *int   `json:"additionalQty" validate:"required,min=0,max=10"`
	Message       string `json:"message" validate:"max=280"`
}

// companionSubmission is the variant B form.
type companionSubmission struct {
	Name           string `json:"name" validate:"required,min=2,max=80"`
	Status         string `json:"status" validate:"required,oneof=YES NO"`
	BringCompanion bool   `json:"bringCompanion"`
	CompanionName  string `json:"companionName" validate:"max=80"`
	Message        string `json:"message" validate:"max=280"`
}

const tagCompanionRequired = "companion_required"

func validateCompanion(sl validator.StructLevel) {
	s := sl.Current().Interface().(companionSubmission)
	if s.BringCompanion && utf8.RuneCountInString(s.CompanionName) < 2 {
		sl.ReportError(s.CompanionName, "companionName", "CompanionName", tagCompanionRequired, "")
	}
}

// Validator turns raw submission bodies into guests ready to persist.
type Validator struct {
	variant     Variant
	phoneRegion string
	validate    *validator.Validate
}

func NewValidator(variant Variant, phoneRegion string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names so issues line up with the submitted fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateCompanion, companionSubmission{})

	return &Validator{
		variant:     variant,
		phoneRegion: phoneRegion,
		validate:    v,
	}
}

func (v *Validator) Variant() Variant {
	return v.variant
}

// Parse decodes a JSON object from r and validates it against the active
// variant. Messages in a returned *ValidationError are in lang.
func (v *Validator) Parse(r io.Reader, lang i18n.Language) (*database.NewGuest, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil || raw == nil {
		issues := newIssues()
		issues.addForm(i18n.T(lang, i18n.BodyInvalid))
		return nil, &ValidationError{Issues: issues}
	}

	if v.variant == Companion {
		return v.parseCompanion(raw, lang)
	}
	return v.parseQuantity(raw, lang)
}

func (v *Validator) parseQuantity(raw map[string]any, lang i18n.Language) (*database.NewGuest, error) {
	issues := newIssues()
	var s quantitySubmission
	var ok bool

	if s.Name, ok = stringField(raw, "name"); !ok {
		issues.addField("name", i18n.T(lang, i18n.NameRequired))
	}
	if s.Phone, ok = stringField(raw, "phone"); !ok {
		issues.addField("phone", i18n.T(lang, i18n.FieldInvalid))
	}
	if s.Status, ok = stringField(raw, "status"); !ok {
		issues.addField("status", i18n.T(lang, i18n.StatusInvalid))
	}
	if s.AdditionalQty, ok = intField(raw, "additionalQty"); !ok {
		issues.addField("additionalQty", i18n.T(lang, i18n.QuantityInvalid))
	}
	if s.Message, ok = stringField(raw, "message"); !ok {
		issues.addField("message", i18n.T(lang, i18n.FieldInvalid))
	}

	s.Name = strings.TrimSpace(s.Name)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Message = strings.TrimSpace(s.Message)

	if err := v.check(s, &issues, lang); err != nil {
		return nil, err
	}

	guest := &database.NewGuest{
		Name:          s.Name,
		Status:        database.Status(s.Status),
		AdditionalQty: *s.AdditionalQty,
		Message:       optional(s.Message),
	}
	if s.Phone != "" {
		phone := utils.NormalizeOrKeep(s.Phone, v.phoneRegion)
		guest.Phone = &phone
	}
	return guest, nil
}

func (v *Validator) parseCompanion(raw map[string]any, lang i18n.Language) (*database.NewGuest, error) {
	issues := newIssues()
	var s companionSubmission
	var ok bool

	if s.Name, ok = stringField(raw, "name"); !ok {
		issues.addField("name", i18n.T(lang, i18n.NameRequired))
	}
	if s.Status, ok = stringField(raw, "status"); !ok {
		issues.addField("status", i18n.T(lang, i18n.StatusInvalid))
	}
	if s.BringCompanion, ok = boolField(raw, "bringCompanion"); !ok {
		issues.addField("bringCompanion", i18n.T(lang, i18n.FieldInvalid))
	}
	if s.CompanionName, ok = stringField(raw, "companionName"); !ok {
		issues.addField("companionName", i18n.T(lang, i18n.FieldInvalid))
	}
	if s.Message, ok = stringField(raw, "message"); !ok {
		issues.addField("message", i18n.T(lang, i18n.FieldInvalid))
	}

	s.Name = strings.TrimSpace(s.Name)
	s.CompanionName = strings.TrimSpace(s.CompanionName)
	s.Message = strings.TrimSpace(s.Message)

	if err := v.check(s, &issues, lang); err != nil {
		return nil, err
	}

	guest := &database.NewGuest{
		Name:    s.Name,
		Status:  database.Status(s.Status),
		Message: optional(s.Message),
	}
	if s.BringCompanion {
		guest.AdditionalQty = 1
		guest.CompanionName = optional(s.CompanionName)
	}
	return guest, nil
}

// check runs the struct validator and merges its findings with coercion
// issues already collected. A field that failed coercion keeps only that issue.
func (v *Validator) check(s any, issues *Issues, lang i18n.Language) error {
	if err := v.validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate rsvp: %w", err)
		}
		for _, fe := range fieldErrs {
			if _, seen := issues.FieldErrors[fe.Field()]; seen {
				continue
			}
			issues.addField(fe.Field(), i18n.T(lang, messageFor(fe.Field(), fe.Tag())))
		}
	}

	if !issues.empty() {
		return &ValidationError{Issues: *issues}
	}
	return nil
}

func messageFor(field, tag string) i18n.Key {
	switch field {
	case "name":
		switch tag {
		case "required":
			return i18n.NameRequired
		case "min":
			return i18n.NameTooShort
		case "max":
			return i18n.NameTooLong
		}
	case "phone":
		return i18n.PhoneTooLong
	case "status":
		return i18n.StatusInvalid
	case "additionalQty":
		return i18n.QuantityInvalid
	case "companionName":
		if tag == tagCompanionRequired {
			return i18n.CompanionRequired
		}
		return i18n.CompanionTooLong
	case "message":
		return i18n.MessageTooLong
	}
	return i18n.FieldInvalid
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
