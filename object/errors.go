package object

import "fmt"

// ErrorKind names one of the error categories raised by the lexer, parser,
// evaluator, compiler, or VM. Carrying the same enumeration through every
// stage lets the CLI render a single, consistent diagnostic format no
// matter which stage of the pipeline failed.
type ErrorKind string

const (
	LexError      ErrorKind = "LexError"
	ParseError    ErrorKind = "ParseError"
	NameError     ErrorKind = "NameError"
	TypeError     ErrorKind = "TypeError"
	ArityError    ErrorKind = "ArityError"
	IndexError    ErrorKind = "IndexError"
	DivideByZero  ErrorKind = "DivideByZero"
	ValueError    ErrorKind = "ValueError"
	ImportError   ErrorKind = "ImportError"
	StackOverflow ErrorKind = "StackOverflow"
)

// Span locates a token or AST node in source text.
type Span struct {
	Line   int
	Column int
}

// Frame is one entry of a captured call stack, innermost call first.
type Frame struct {
	Function string
	Span     Span
}

// Error is the single error representation shared by every pipeline stage.
// It satisfies both the Value interface (so the evaluator and VM can carry
// it through ordinary value-propagation instead of Go panics) and the
// built-in error interface (so the lexer and parser, which run before any
// Value exists, can return it as a plain Go error).
type Error struct {
	Kind    ErrorKind
	Message string
	Span    Span
	Stack   []Frame // populated for runtime errors only
}

// NewError builds an Error at the given span with a formatted message.
func NewError(kind ErrorKind, span Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

func (e *Error) Type() ValueType { return ERROR }

func (e *Error) Inspect() string {
	return fmt.Sprintf("<%s: %s>", e.Kind, e.Message)
}

func (e *Error) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Error implements the standard error interface, so *Error can be returned
// directly by lexer/parser functions as an ordinary Go error.
func (e *Error) Error() string {
	return e.String()
}

// WithFrame appends a call-stack frame. Both engines call it when the
// error is created, walking from the innermost call outward, so Stack
// lists the innermost call first. It returns the receiver for chaining.
func (e *Error) WithFrame(function string, span Span) *Error {
	e.Stack = append(e.Stack, Frame{Function: function, Span: span})
	return e
}
