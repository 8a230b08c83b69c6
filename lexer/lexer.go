// Package lexer implements the lexical analyzer for alma source text.
//
// Adapted from the teacher repository's lexer (byte-at-a-time scanning,
// a small set of pre-allocated single-character tokens, `//` line
// comments) to alma's concatenative surface syntax: maximal runs of
// non-delimiter bytes are read as one "word" and then classified as a
// number, the `->` arrow, `=`, a keyword, or a plain identifier —
// there is no fixed operator table, since in a concatenative language
// `+`, `-`, `swap`, and `double` are all just words resolved against
// scope at compile time.
package lexer

import (
	"strings"

	"github.com/cassowary2/alma/token"
)

var (
	tokenLBracket = token.Type(token.LBRACKET)
	tokenRBracket = token.Type(token.RBRACKET)
	tokenLParen   = token.Type(token.LPAREN)
	tokenRParen   = token.Type(token.RPAREN)
	tokenComma    = token.Type(token.COMMA)
)

// isDelimiter reports whether ch always ends a word and is never part of
// one.
func isDelimiter(ch byte) bool {
	switch ch {
	case 0, ' ', '\t', '\n', '\r', '[', ']', '(', ')', ',', '"', '\'':
		return true
	default:
		return false
	}
}

// Lexer scans alma source text into a stream of tokens.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
}

// New creates a Lexer over input, positioned before its first byte.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	if l.ch == '\n' {
		l.line++
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken returns the next token in the input, or an EOF token once
// exhausted.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	line := l.line

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Line: line}
	case '[':
		l.readChar()
		return token.Token{Type: tokenLBracket, Literal: "[", Line: line}
	case ']':
		l.readChar()
		return token.Token{Type: tokenRBracket, Literal: "]", Line: line}
	case '(':
		l.readChar()
		return token.Token{Type: tokenLParen, Literal: "(", Line: line}
	case ')':
		l.readChar()
		return token.Token{Type: tokenRParen, Literal: ")", Line: line}
	case ',':
		l.readChar()
		return token.Token{Type: tokenComma, Literal: ",", Line: line}
	case '"':
		lit, ok := l.readQuoted('"')
		if !ok {
			return token.Token{Type: token.ILLEGAL, Literal: "unterminated string", Line: line}
		}
		return token.Token{Type: token.STRING, Literal: lit, Line: line}
	case '\'':
		lit, ok := l.readQuoted('\'')
		if !ok {
			return token.Token{Type: token.ILLEGAL, Literal: "unterminated char", Line: line}
		}
		return token.Token{Type: token.CHAR, Literal: lit, Line: line}
	case ':':
		l.readChar()
		name := l.readWord()
		if name == "" {
			return token.Token{Type: token.ILLEGAL, Literal: "empty symbol literal", Line: line}
		}
		return token.Token{Type: token.SYMBOL, Literal: name, Line: line}
	}

	word := l.readWord()
	return classifyWord(word, line)
}

// classifyWord turns a maximal non-delimiter run into a concrete token:
// a number, the arrow/assign punctuation, a keyword, or a plain word
// reference.
func classifyWord(word string, line int) token.Token {
	switch word {
	case "->":
		return token.Token{Type: token.ARROW, Literal: word, Line: line}
	case "=":
		return token.Token{Type: token.ASSIGN, Literal: word, Line: line}
	}
	if kw := token.LookupIdent(word); kw != token.IDENT {
		return token.Token{Type: kw, Literal: word, Line: line}
	}
	if kind, ok := classifyNumber(word); ok {
		return token.Token{Type: kind, Literal: word, Line: line}
	}
	return token.Token{Type: token.IDENT, Literal: word, Line: line}
}

// classifyNumber reports whether word looks like an integer or float
// literal: an optional leading '-', digits, and at most one '.'.
func classifyNumber(word string) (token.Type, bool) {
	if word == "" {
		return "", false
	}
	i := 0
	if word[0] == '-' {
		i++
	}
	if i == len(word) {
		return "", false
	}
	sawDigit := false
	sawDot := false
	for ; i < len(word); i++ {
		switch {
		case word[i] >= '0' && word[i] <= '9':
			sawDigit = true
		case word[i] == '.' && !sawDot:
			sawDot = true
		default:
			return "", false
		}
	}
	if !sawDigit {
		return "", false
	}
	if sawDot {
		return token.FLOAT, true
	}
	return token.INT, true
}

// readWord reads a maximal run of non-delimiter bytes.
func (l *Lexer) readWord() string {
	start := l.position
	for !isDelimiter(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readQuoted reads raw bytes up to (but not past) an unescaped delim,
// preserving backslash escapes verbatim — decoding happens later, in
// ustring.ParseString, so the lexer only needs to recognize where a
// quoted literal ends.
func (l *Lexer) readQuoted(delim byte) (string, bool) {
	var b strings.Builder
	l.readChar() // skip opening delimiter

	for {
		if l.ch == delim {
			l.readChar() // skip closing delimiter
			return b.String(), true
		}
		if l.ch == 0 {
			return b.String(), false
		}
		if l.ch == '\\' {
			b.WriteByte(l.ch)
			l.readChar()
			if l.ch == 0 {
				return b.String(), false
			}
			b.WriteByte(l.ch)
			l.readChar()
			continue
		}
		b.WriteByte(l.ch)
		l.readChar()
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		if l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
			continue
		}
		if l.ch == '/' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}
