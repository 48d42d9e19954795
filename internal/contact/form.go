// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package contact handles the contact form: validation, spam checks,
// storage and delivery by mail.
package contact

import (
	"errors"
	"html"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Form is a submitted contact request.
type Form struct {
	Name    string `form:"name" validate:"required,min=2,max=120"`
	Email   string `form:"email" validate:"required,contactemail,max=254"`
	Phone   string `form:"phone" validate:"max=40"`
	Company string `form:"company" validate:"max=160"`
	Service string `form:"service" validate:"max=160"`
	Message string `form:"message" validate:"required,min=10,max=5000"`
	Privacy bool   `form:"privacy" validate:"required"`

	// Website is a honeypot field hidden from humans.
	Website        string `form:"website" validate:"-"`
	RecaptchaToken string `form:"recaptchaToken" validate:"-"`
}

// FormFromRequest reads the form fields of a POST request. Text fields are
// trimmed.
func FormFromRequest(r *http.Request) Form {
	v := func(key string) string { return strings.TrimSpace(r.PostFormValue(key)) }
	privacy := v("privacy")
	return Form{
		Name:           v("name"),
		Email:          v("email"),
		Phone:          v("phone"),
		Company:        v("company"),
		Service:        v("service"),
		Message:        v("message"),
		Privacy:        privacy == "on" || privacy == "true" || privacy == "1",
		Website:        v("website"),
		RecaptchaToken: v("recaptchaToken"),
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			return f.Tag.Get("form")
		})
		_ = validate.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
			return emailPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// fieldMessages maps field and failed tag to the message shown next to the
// field. The "*" entry is the field fallback.
var fieldMessages = map[string]map[string]string{
	"name": {
		"required": "Il nome è obbligatorio",
		"min":      "Il nome deve avere almeno 2 caratteri",
		"*":        "Il nome è troppo lungo",
	},
	"email": {
		"required": "L'email è obbligatoria",
		"*":        "Inserisci un'email valida",
	},
	"message": {
		"required": "Il messaggio è obbligatorio",
		"min":      "Il messaggio deve avere almeno 10 caratteri",
		"*":        "Il messaggio è troppo lungo",
	},
	"privacy": {
		"*": "Devi accettare l'informativa sulla privacy",
	},
	"phone":   {"*": "Numero di telefono non valido"},
	"company": {"*": "Il nome dell'azienda è troppo lungo"},
	"service": {"*": "Servizio non valido"},
}

// Validate checks the form and returns per-field messages in Italian. An
// empty map means the form is valid.
func (f Form) Validate() map[string]string {
	errs := map[string]string{}
	err := formValidator().Struct(f)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["form"] = MsgInvalid
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		msgs := fieldMessages[field]
		if m, ok := msgs[fe.Tag()]; ok {
			errs[field] = m
		} else {
			errs[field] = msgs["*"]
		}
	}
	return errs
}

var strictPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds the strip/unescape loop for nested entities.
const maxSanitizePasses = 8

// stripMarkup removes every tag, also those hidden behind entities such
// as &lt;b&gt;, and returns plain text. Input that is still changing after
// maxSanitizePasses is returned in its escaped form.
func stripMarkup(s string) string {
	for range maxSanitizePasses {
		out := html.UnescapeString(strictPolicy.Sanitize(s))
		if out == s {
			return s
		}
		s = out
	}
	return strictPolicy.Sanitize(s)
}

// Sanitized returns a copy with every markup tag stripped. The result is
// plain text; templates escape it again on output.
func (f Form) Sanitized() Form {
	clean := func(s string) string {
		return strings.TrimSpace(stripMarkup(s))
	}
	f.Name = clean(f.Name)
	f.Email = clean(f.Email)
	f.Phone = clean(f.Phone)
	f.Company = clean(f.Company)
	f.Service = clean(f.Service)
	f.Message = clean(f.Message)
	return f
}
