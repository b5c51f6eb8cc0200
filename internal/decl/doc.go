// Package decl finds function declarations and definitions in C sources.
//
// It is not a C parser. A small tokenizer (Lexer) turns source text into
// identifiers, literals and punctuation while dropping whitespace, comments
// and preprocessor directives. Two matchers then walk the token stream:
//
//   - Extract recognizes `extern void name(args);` declarations, the shape
//     EEZ Studio emits for user actions in actions.h.
//   - ScanDefinitions recognizes `name(args) {` at file scope, which is how
//     an implemented action looks in actions.c.
//
// Because comments never reach the matchers, a commented-out example such as
//
//	// void action_get_id(lv_event_t * e) {
//
// is neither a declaration nor a definition.
package decl
