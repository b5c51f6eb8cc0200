package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Text)
	}
	return out
}

func TestTokenizeBasic(t *testing.T) {
	toks := Tokenize("extern void action_go(lv_event_t * e);")

	assert.Equal(t, []string{"extern", "void", "action_go", "(", "lv_event_t", "*", "e", ")", ";"}, texts(toks))
	assert.Equal(t, Ident, toks[0].Kind)
	assert.Equal(t, Punct, toks[3].Kind)
}

func TestTokenizeSkipsComments(t *testing.T) {
	src := "a // line comment b\n/* block\ncomment */ c"
	toks := Tokenize(src)

	require.Len(t, toks, 2)
	assert.Equal(t, "a", toks[0].Text)
	assert.Equal(t, "c", toks[1].Text)
	assert.Equal(t, 3, toks[1].Line)
}

func TestTokenizeSkipsDirectives(t *testing.T) {
	src := `#include "ui.h"
#define WRAP(x) \
	do { x; } while (0)
  # pragma once
int y;`
	toks := Tokenize(src)

	assert.Equal(t, []string{"int", "y", ";"}, texts(toks))
	assert.Equal(t, 5, toks[0].Line)
}

func TestTokenizeHashMidLineIsPunct(t *testing.T) {
	toks := Tokenize("a # b")
	assert.Equal(t, []string{"a", "#", "b"}, texts(toks))
}

func TestTokenizeLiterals(t *testing.T) {
	toks := Tokenize(`s = "a \" // not a comment"; c = '\''; n = 0x1F;`)

	require.Len(t, toks, 12)
	assert.Equal(t, String, toks[2].Kind)
	assert.Equal(t, `"a \" // not a comment"`, toks[2].Text)
	assert.Equal(t, Char, toks[6].Kind)
	assert.Equal(t, Number, toks[10].Kind)
	assert.Equal(t, "0x1F", toks[10].Text)
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	toks := Tokenize("a /* never closed")
	assert.Equal(t, []string{"a"}, texts(toks))

	toks, unclosed := tokenize("a /* never\nclosed", true)
	assert.True(t, unclosed)
	assert.Equal(t, []string{"a", "never", "closed"}, texts(toks))
	assert.Equal(t, 2, toks[2].Line)

	_, unclosed = tokenize("a /* closed */ b", false)
	assert.False(t, unclosed)
}

func TestTokenOffsets(t *testing.T) {
	src := "ab  cd"
	toks := Tokenize(src)

	require.Len(t, toks, 2)
	assert.Equal(t, 0, toks[0].Pos)
	assert.Equal(t, 2, toks[0].End)
	assert.Equal(t, 4, toks[1].Pos)
	assert.Equal(t, "cd", src[toks[1].Pos:toks[1].End])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ident", Ident.String())
	assert.Equal(t, "punct", Punct.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
