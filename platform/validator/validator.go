// Package validator wraps go-playground/validator behind a small injectable
// type so handlers never reach for a package-level instance.
package validator

import "github.com/go-playground/validator/v10"

// Validator validates request payloads against their struct tags.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator. Custom rules are added with RegisterValidation.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates a struct against its validate tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single value against a tag expression.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation adds a named custom validation rule.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
