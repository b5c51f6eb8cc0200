package decl

import (
	"unicode/utf8"
)

// Kind classifies a token.
type Kind int

const (
	// EOF marks the end of the token stream.
	EOF Kind = iota
	// Ident is an identifier or keyword.
	Ident
	// Number is a numeric literal.
	Number
	// String is a double-quoted string literal, quotes included.
	String
	// Char is a single-quoted character literal, quotes included.
	Char
	// Punct is any other single character.
	Punct
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "eof"
	case Ident:
		return "ident"
	case Number:
		return "number"
	case String:
		return "string"
	case Char:
		return "char"
	case Punct:
		return "punct"
	default:
		return "unknown"
	}
}

// Token is one lexical unit. Pos and End are byte offsets into the source.
type Token struct {
	Kind Kind
	Text string
	Line int
	Pos  int
	End  int
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// Lexer splits C source text into tokens. Whitespace, comments and
// preprocessor directives are skipped.
type Lexer struct {
	src  string
	pos  int
	line int
	// bol is true while only whitespace has been seen on the current line,
	// which is where a '#' starts a directive.
	bol bool
	// loose makes an unterminated block comment hide only its opener.
	loose    bool
	unclosed bool
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, bol: true}
}

// Tokenize returns every token in src, without the trailing EOF token.
func Tokenize(src string) []Token {
	toks, _ := tokenize(src, false)
	return toks
}

// tokenize also reports whether src ended inside a block comment. In loose
// mode such a comment drops only its "/*", so the text after it is lexed.
func tokenize(src string, loose bool) ([]Token, bool) {
	l := NewLexer(src)
	l.loose = loose
	var toks []Token
	for {
		tok := l.Next()
		if tok.Kind == EOF {
			return toks, l.unclosed
		}
		toks = append(toks, tok)
	}
}

// Next returns the next token, or an EOF token once the input is exhausted.
func (l *Lexer) Next() Token {
	l.skip()
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Line: l.line, Pos: l.pos, End: l.pos}
	}

	start, line := l.pos, l.line
	l.bol = false
	c := l.src[l.pos]

	var kind Kind
	switch {
	case isIdentStart(c):
		kind = Ident
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
	case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		kind = Number
		for l.pos < len(l.src) && (isIdentPart(l.src[l.pos]) || l.src[l.pos] == '.' || l.src[l.pos] == '\'') {
			l.pos++
		}
	case c == '"':
		kind = String
		l.quoted('"')
	case c == '\'':
		kind = Char
		l.quoted('\'')
	default:
		kind = Punct
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
	}

	return Token{Kind: kind, Text: l.src[start:l.pos], Line: line, Pos: start, End: l.pos}
}

// skip advances past whitespace, comments and preprocessor directives.
func (l *Lexer) skip() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.bol = true
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.peek(1) == '/':
			l.lineComment()
		case c == '/' && l.peek(1) == '*':
			l.blockComment()
		case c == '#' && l.bol:
			l.directive()
		default:
			return
		}
	}
}

func (l *Lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}
	return 0
}

// lineComment stops before the newline so skip can account for it.
func (l *Lexer) lineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *Lexer) blockComment() {
	l.pos += 2
	start, line := l.pos, l.line
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peek(1) == '/' {
			l.pos += 2
			return
		}
		if l.src[l.pos] == '\n' {
			l.line++
		}
		l.pos++
	}
	l.unclosed = true
	if l.loose {
		l.pos, l.line = start, line
	}
}

// directive skips a preprocessor line, following backslash continuations
// and block comments that span lines.
func (l *Lexer) directive() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n':
			return
		case c == '\\' && l.peek(1) == '\n':
			l.line++
			l.pos += 2
		case c == '\\' && l.peek(1) == '\r' && l.peek(2) == '\n':
			l.line++
			l.pos += 3
		case c == '/' && l.peek(1) == '*':
			l.blockComment()
		case c == '/' && l.peek(1) == '/':
			l.lineComment()
			return
		default:
			l.pos++
		}
	}
}

// quoted consumes a literal delimited by q. An unterminated literal ends at
// the end of the line.
func (l *Lexer) quoted(q byte) {
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\' && l.pos+1 < len(l.src) && l.src[l.pos+1] != '\n':
			l.pos += 2
		case c == q:
			l.pos++
			return
		case c == '\n':
			return
		default:
			l.pos++
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
