package decl

import (
	"os"
	"strings"
)

// Declaration is one `extern void name(params);` found in a header.
type Declaration struct {
	Name string
	// Params is the parameter list as written, with comments dropped and
	// whitespace collapsed to single spaces. Empty for `name()`.
	Params string
	Line   int
}

// Definition is one `name(params) {` found at file scope.
type Definition struct {
	Name string
	Line int
}

// keywords can be followed by a parenthesis and a brace but never name a
// function.
var keywords = map[string]bool{
	"if":             true,
	"else":           true,
	"for":            true,
	"while":          true,
	"do":             true,
	"switch":         true,
	"case":           true,
	"return":         true,
	"sizeof":         true,
	"defined":        true,
	"typeof":         true,
	"__typeof__":     true,
	"alignof":        true,
	"_Alignof":       true,
	"_Generic":       true,
	"_Static_assert": true,
	"static_assert":  true,
	"decltype":       true,
	"catch":          true,
	"extern":         true,
	"void":           true,
}

// Extract returns the `extern void` declarations in src in source order.
// Repeated names are kept; callers that need a set dedupe by Name.
func Extract(src string) []Declaration {
	toks := Tokenize(src)
	var decls []Declaration

	for i := 0; i+3 < len(toks); i++ {
		if !toks[i].Is(Ident, "extern") || !toks[i+1].Is(Ident, "void") {
			continue
		}
		name := toks[i+2]
		if !isName(name) || !toks[i+3].Is(Punct, "(") {
			continue
		}

		closeIdx, ok := closeParen(toks, i+3)
		if !ok || closeIdx+1 >= len(toks) || !toks[closeIdx+1].Is(Punct, ";") {
			continue
		}

		decls = append(decls, Declaration{
			Name:   name.Text,
			Params: joinTokens(toks[i+4 : closeIdx]),
			Line:   toks[i].Line,
		})
		i = closeIdx + 1
	}

	return decls
}

// ExtractFile reads path and extracts its declarations. Read errors are
// returned as is.
func ExtractFile(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Extract(string(data)), nil
}

// ScanDefinitions returns the functions defined at file scope in src.
// Bodies are skipped by brace matching, so calls made inside a body are not
// reported. Braces opened by `extern "C"` and `namespace` blocks do not count
// as nesting.
//
// A file left unbalanced by hand editing (an unclosed brace or block comment)
// has no reliable file scope. It is scanned again with every `name(args) {`
// counted at any depth and an unclosed comment hiding only its "/*".
func ScanDefinitions(src string) []Definition {
	toks, unclosed := tokenize(src, false)
	defs, balanced := scanDefinitions(toks, false)
	if balanced && !unclosed {
		return defs
	}

	toks, _ = tokenize(src, true)
	defs, _ = scanDefinitions(toks, true)
	return defs
}

// Balanced reports whether every brace and block comment in src is closed.
func Balanced(src string) bool {
	toks, unclosed := tokenize(src, false)
	_, balanced := scanDefinitions(toks, false)
	return balanced && !unclosed
}

func scanDefinitions(toks []Token, anyDepth bool) ([]Definition, bool) {
	var defs []Definition

	// Each entry records whether the brace is a transparent linkage or
	// namespace block; depth counts only the opaque ones.
	var braces []bool
	depth := 0

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch {
		case tok.Is(Punct, "{"):
			transparent := opensBlock(toks, i)
			braces = append(braces, transparent)
			if !transparent {
				depth++
			}
		case tok.Is(Punct, "}"):
			if n := len(braces); n > 0 {
				if !braces[n-1] {
					depth--
				}
				braces = braces[:n-1]
			}
		case (depth == 0 || anyDepth) && isName(tok) && i+1 < len(toks) && toks[i+1].Is(Punct, "("):
			closeIdx, ok := closeParen(toks, i+1)
			if ok && closeIdx+1 < len(toks) && toks[closeIdx+1].Is(Punct, "{") {
				defs = append(defs, Definition{Name: tok.Text, Line: tok.Line})
				i = closeIdx
			}
		}
	}

	return defs, len(braces) == 0
}

// ImplementedNames returns the set of function names defined in src.
func ImplementedNames(src string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, def := range ScanDefinitions(src) {
		names[def.Name] = struct{}{}
	}
	return names
}

func isName(tok Token) bool {
	return tok.Kind == Ident && !keywords[tok.Text]
}

// closeParen returns the index of the parenthesis closing toks[open].
// A semicolon or brace inside the parentheses means the text is not a
// signature, and no match is reported.
func closeParen(toks []Token, open int) (int, bool) {
	depth := 0
	for i := open; i < len(toks); i++ {
		tok := toks[i]
		if tok.Kind != Punct {
			continue
		}
		switch tok.Text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i, true
			}
		case ";", "{", "}":
			return 0, false
		}
	}
	return 0, false
}

// opensBlock reports whether the brace at toks[i] opens an `extern "C"` or
// `namespace [name]` block.
func opensBlock(toks []Token, i int) bool {
	if i >= 2 && toks[i-1].Kind == String && toks[i-2].Is(Ident, "extern") {
		return true
	}
	if i >= 1 && toks[i-1].Is(Ident, "namespace") {
		return true
	}
	if i >= 2 && toks[i-1].Kind == Ident && toks[i-2].Is(Ident, "namespace") {
		return true
	}
	return false
}

// joinTokens rebuilds source text from tokens. Tokens that were separated by
// whitespace or a comment get one space between them.
func joinTokens(toks []Token) string {
	var b strings.Builder
	for i, tok := range toks {
		if i > 0 && toks[i-1].End != tok.Pos {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}
