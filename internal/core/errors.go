package core

import "errors"

// ValidationError reports an entry that breaks a business rule. Reason is
// meant to be shown to the user as-is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// AuthenticationError reports a failed credential lookup or match.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return e.Reason
}

// BusinessRuleError reports a request rejected by a user-directory rule.
type BusinessRuleError struct {
	Reason string
}

func (e *BusinessRuleError) Error() string {
	return e.Reason
}

// Validation failures, in the order ValidateEntry checks them.
var (
	ErrInvalidDescription = &ValidationError{Reason: "Informe descrição válida!"}
	ErrInvalidMonth       = &ValidationError{Reason: "Informe um mês válido!"}
	ErrInvalidYear        = &ValidationError{Reason: "Informe um ano válido!"}
	ErrMissingUser        = &ValidationError{Reason: "Informe um usuário!"}
	ErrInvalidAmount      = &ValidationError{Reason: "Informe um valor válido!"}
	ErrMissingKind        = &ValidationError{Reason: "Informe um tipo de lançamento!"}
)

var (
	ErrUserNotFound    = &AuthenticationError{Reason: "Usuario não encontrado para o email informado!"}
	ErrInvalidPassword = &AuthenticationError{Reason: "Senha inválida!"}
	ErrEmailTaken      = &BusinessRuleError{Reason: "Já existe um usuário cadastrado com este email"}
)

// ErrMissingID is returned when update or delete is called on an entry that
// was never saved. It signals caller misuse, not bad business data.
var ErrMissingID = errors.New("entry has no identifier")

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
