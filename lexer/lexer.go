package lexer

import (
	"strings"
	"unicode"

	"github.com/rafiyamo/pyraf/object"
)

// Lexer scans PyRaf source text one byte at a time, tracking line/column
// position for diagnostics. It holds no lookahead buffer beyond a single
// Peek byte; NextToken is the sole entry point and is called repeatedly
// until it returns an EOF token or an error.
type Lexer struct {
	Src       string
	Current   byte
	Position  int
	SrcLength int
	Line      int
	Column    int
}

// NewLexer creates a Lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	src = strings.TrimPrefix(src, "\xef\xbb\xbf") // tolerate a leading BOM
	current := byte(0)
	if len(src) > 0 {
		current = src[0]
	}
	return &Lexer{Src: src, Current: current, SrcLength: len(src), Line: 1, Column: 1}
}

// Peek looks at the next byte without consuming it, or 0 at end of source.
func (l *Lexer) Peek() byte {
	if l.Position+1 >= l.SrcLength {
		return 0
	}
	return l.Src[l.Position+1]
}

// Advance consumes Current and moves to the next byte.
func (l *Lexer) Advance() {
	l.Position++
	l.Column++
	if l.Position >= l.SrcLength {
		l.Current = 0
		l.Position = l.SrcLength
	} else {
		l.Current = l.Src[l.Position]
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.Current == '\n':
			l.Line++
			l.Column = 0 // Advance below brings this to 1
			l.Advance()
		case isSpace(l.Current):
			l.Advance()
		case l.Current == '/' && l.Peek() == '/':
			for l.Current != '\n' && l.Current != 0 {
				l.Advance()
			}
		default:
			return
		}
	}
}

// NextToken returns the next token in the source, or a LexError if the
// input cannot be tokenized. The lexer does not recover from an error;
// the caller should stop calling NextToken once one is returned.
func (l *Lexer) NextToken() (Token, *object.Error) {
	l.skipWhitespaceAndComments()

	line, col := l.Line, l.Column

	if l.Current == 0 {
		return New(EOF, "", line, col), nil
	}

	switch l.Current {
	case '=':
		return l.twoByteOp('=', EQ, ASSIGN, "==", "=", line, col), nil
	case '!':
		if l.Peek() == '=' {
			l.Advance()
			l.Advance()
			return New(NEQ, "!=", line, col), nil
		}
		return Token{}, object.NewError(object.LexError, object.Span{Line: line, Column: col}, "unexpected character %q", l.Current)
	case '<':
		return l.twoByteOp('=', LTE, LT, "<=", "<", line, col), nil
	case '>':
		return l.twoByteOp('=', GTE, GT, ">=", ">", line, col), nil
	case '+':
		l.Advance()
		return New(PLUS, "+", line, col), nil
	case '-':
		l.Advance()
		return New(MINUS, "-", line, col), nil
	case '*':
		l.Advance()
		return New(STAR, "*", line, col), nil
	case '/':
		l.Advance()
		return New(SLASH, "/", line, col), nil
	case '%':
		l.Advance()
		return New(PCT, "%", line, col), nil
	case '(':
		l.Advance()
		return New(LPAREN, "(", line, col), nil
	case ')':
		l.Advance()
		return New(RPAREN, ")", line, col), nil
	case '{':
		l.Advance()
		return New(LBRACE, "{", line, col), nil
	case '}':
		l.Advance()
		return New(RBRACE, "}", line, col), nil
	case '[':
		l.Advance()
		return New(LBRACKET, "[", line, col), nil
	case ']':
		l.Advance()
		return New(RBRACKET, "]", line, col), nil
	case ',':
		l.Advance()
		return New(COMMA, ",", line, col), nil
	case ';':
		l.Advance()
		return New(SEMI, ";", line, col), nil
	case '"':
		return l.readString(line, col)
	}

	if isDigit(l.Current) {
		return l.readNumber(line, col), nil
	}
	if isAlpha(l.Current) || l.Current == '_' {
		return l.readIdent(line, col), nil
	}

	ch := l.Current
	l.Advance()
	return Token{}, object.NewError(object.LexError, object.Span{Line: line, Column: col}, "unexpected character %q", ch)
}

// twoByteOp handles the `X` vs `X=` family (==, <=, >=) uniformly.
func (l *Lexer) twoByteOp(second byte, twoType TokenType, oneType TokenType, twoLit, oneLit string, line, col int) Token {
	if l.Peek() == second {
		l.Advance()
		l.Advance()
		return New(twoType, twoLit, line, col)
	}
	l.Advance()
	return New(oneType, oneLit, line, col)
}

func (l *Lexer) readNumber(line, col int) Token {
	start := l.Position
	for isDigit(l.Current) {
		l.Advance()
	}
	if l.Current == '.' && isDigit(l.Peek()) {
		l.Advance()
		for isDigit(l.Current) {
			l.Advance()
		}
	}
	return New(NUMBER, l.Src[start:l.Position], line, col)
}

func (l *Lexer) readIdent(line, col int) Token {
	start := l.Position
	for isAlpha(l.Current) || isDigit(l.Current) || l.Current == '_' {
		l.Advance()
	}
	lit := l.Src[start:l.Position]
	return New(lookupIdent(lit), lit, line, col)
}

func (l *Lexer) readString(line, col int) (Token, *object.Error) {
	l.Advance() // consume opening quote
	var sb strings.Builder
	for l.Current != '"' {
		if l.Current == 0 {
			return Token{}, object.NewError(object.LexError, object.Span{Line: line, Column: col}, "unterminated string literal")
		}
		if l.Current == '\\' {
			l.Advance()
			esc, ok := escapeByte(l.Current)
			if !ok {
				return Token{}, object.NewError(object.LexError, object.Span{Line: l.Line, Column: l.Column}, "invalid escape sequence \\%c", l.Current)
			}
			sb.WriteByte(esc)
			l.Advance()
			continue
		}
		sb.WriteByte(l.Current)
		l.Advance()
	}
	l.Advance() // consume closing quote
	return New(STRING, sb.String(), line, col), nil
}

func escapeByte(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	default:
		return 0, false
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return unicode.IsLetter(rune(c)) }
func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }
