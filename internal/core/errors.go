package core

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a domain failure so callers can map it to a response
// without matching on message text.
type Kind string

const (
	KindValidation             Kind = "validation"
	KindInvalidTransition      Kind = "invalid_transition"
	KindScoreOutOfRange        Kind = "score_out_of_range"
	KindNoCorrectOption        Kind = "no_correct_option"
	KindInvalidDateRange       Kind = "invalid_date_range"
	KindIncompleteAnswers      Kind = "incomplete_answers"
	KindConcurrentModification Kind = "concurrent_modification"
	KindIndexOutOfRange        Kind = "index_out_of_range"
	KindNotFound               Kind = "not_found"
)

// Error is the typed failure returned by every domain operation. Field is set
// for user-correctable input problems only.
type Error struct {
	Kind  Kind   `json:"kind"`
	Field string `json:"field,omitempty"`
	Msg   string `json:"msg"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return string(e.Kind) + ": " + e.Field + ": " + e.Msg
	}
	return string(e.Kind) + ": " + e.Msg
}

func New(k Kind, msg string) *Error { return &Error{Kind: k, Msg: msg} }

func Newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// FieldError is a field-level validation failure.
func FieldError(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: msg}
}

// KindOf unwraps err and returns its Kind, or "" for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// FromValidator converts a validator/v10 failure into a field-level
// validation error. Only the first offending field is reported; the tag name
// function registered on the shared validator makes Field() a JSON name.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &Error{Kind: KindValidation, Field: fe.Field(), Msg: "failed '" + fe.Tag() + "' validation"}
	}
	return &Error{Kind: KindValidation, Msg: err.Error()}
}
