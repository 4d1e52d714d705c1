package diagnostics

import (
	"fmt"
	"strings"

	"github.com/funvibe/tuplecheck/internal/token"
)

// ErrorCode is the kind tag carried by every diagnostic.
type ErrorCode string

const (
	// ErrRecordFactoryArg: malformed record factory call or field list.
	ErrRecordFactoryArg ErrorCode = "record-factory-arg"
	// ErrInvalidAnnotation: an annotation that cannot be used as a field type.
	ErrInvalidAnnotation ErrorCode = "invalid-annotation"
	// ErrWrongKeywordArgs: keyword arguments not accepted by the callee.
	ErrWrongKeywordArgs ErrorCode = "wrong-keyword-args"
	// ErrMissingParameter: a required parameter received no argument.
	ErrMissingParameter ErrorCode = "missing-parameter"
	// ErrWrongArgTypes: an argument is not assignable to its parameter.
	ErrWrongArgTypes ErrorCode = "wrong-arg-types"
	// ErrNotWritable: a generated member was redeclared in a subclass.
	ErrNotWritable ErrorCode = "not-writable"
	// ErrWrongArgCount: more positional arguments than the callee accepts.
	ErrWrongArgCount ErrorCode = "wrong-arg-count"
	// ErrSyntax: an expression or annotation in the program could not be parsed.
	ErrSyntax ErrorCode = "syntax-error"
)

// DiagnosticError is a user-facing static analysis error.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func (e *DiagnosticError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		loc = e.File + ":" + loc
	}
	return fmt.Sprintf("%s: [%s] %s", loc, e.Code, e.Message)
}

// NewError creates a diagnostic at the given token.
func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message}
}

// NewErrorf is NewError with a format string.
func NewErrorf(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

// NewWrongKeywordArgs reports keywords a callee does not accept.
func NewWrongKeywordArgs(tok token.Token, function string, names []string) *DiagnosticError {
	return NewErrorf(ErrWrongKeywordArgs, tok, "Invalid keyword arguments (%s) to function %s", strings.Join(names, ", "), function)
}
