// Package ustring implements an immutable Unicode string as a sequence of
// codepoints, mirroring original_source/ustrings.c's AUstr.
//
// Codepoints are *not* stored as Unicode scalar values. Following
// ustrings.c's char_parse/fprint_char exactly, each multi-byte UTF-8
// sequence is packed into a single 32-bit integer by concatenating its
// raw bytes big-endian into the low bytes of the int; printing reverses
// that by emitting the non-zero bytes from most significant to least.
// This is a storage convention that happens to round-trip UTF-8 bytes
// without ever decoding them to true code points, and this package
// preserves it rather than "fixing" it, per spec §6.
package ustring

import "strings"

// Ustr is an immutable sequence of packed codepoints, per the convention
// above. Equality is elementwise (spec §3).
type Ustr struct {
	codepoints []int32
	byteLen    int
}

// New wraps an already-packed codepoint sequence.
func New(codepoints []int32) *Ustr {
	u := &Ustr{codepoints: codepoints}
	for _, cp := range codepoints {
		u.byteLen += packedByteLen(cp)
	}
	return u
}

// Codepoints returns the packed codepoint sequence backing u. Callers
// must not mutate it: Ustr is immutable after construction.
func (u *Ustr) Codepoints() []int32 { return u.codepoints }

// Len returns the number of codepoints (characters) in u.
func (u *Ustr) Len() int { return len(u.codepoints) }

// ByteLen returns the total UTF-8 byte length u re-encodes to.
func (u *Ustr) ByteLen() int { return u.byteLen }

// Eq reports whether a and b contain the same codepoint sequence.
func Eq(a, b *Ustr) bool {
	if len(a.codepoints) != len(b.codepoints) {
		return false
	}
	for i := range a.codepoints {
		if a.codepoints[i] != b.codepoints[i] {
			return false
		}
	}
	return true
}

// String renders u back to UTF-8 text, the equivalent of ustr_unparse: it
// reverses the big-endian byte packing rather than interpreting the
// codepoints as Unicode scalar values.
func (u *Ustr) String() string {
	var b strings.Builder
	b.Grow(u.byteLen)
	for _, cp := range u.codepoints {
		writePackedChar(&b, cp)
	}
	return b.String()
}

// writePackedChar emits the non-zero bytes of a packed codepoint from
// most significant to least, exactly as fprint_char does.
func writePackedChar(b *strings.Builder, cp int32) {
	for shift := 24; shift >= 0; shift -= 8 {
		by := byte((uint32(cp) >> uint(shift)) & 0xFF)
		if by != 0 {
			b.WriteByte(by)
		}
	}
}

func packedByteLen(cp int32) int {
	v := uint32(cp)
	switch {
	case v < 0x100:
		return 1
	case v < 0x10000:
		return 2
	case v < 0x1000000:
		return 3
	default:
		return 4
	}
}

// Diagnostic is a non-fatal warning produced while parsing escape
// sequences or malformed UTF-8, matching §7's "Bad escape / malformed
// UTF-8: diagnostic; best-effort continue" policy.
type Diagnostic struct {
	Message string
}

// ParseString decodes a raw source-text byte sequence (the contents of a
// string or char literal, captured verbatim by the lexer, backslash
// sequences included) into a Ustr, per spec §6:
//
//	\a \b \f \n \r \t \v \\ \' \" become their control byte;
//	a backslash followed by a newline is suppressed (emits nothing);
//	any other \X passes X through verbatim and appends a Diagnostic —
//	this lenient behavior is intentionally preserved (spec §9's open
//	question about char_parse's default case: a re-implementation
//	should keep it pending clarification, so this package does).
//
// Non-escaped bytes are grouped into 1-4 byte UTF-8 sequences by their
// leading byte (the same ranges char_parse and is_u2/is_u3/is_u4 use) and
// packed per the convention documented on Ustr.
func ParseString(raw string) (*Ustr, []Diagnostic) {
	var codepoints []int32
	var diags []Diagnostic

	bytes := []byte(raw)
	i := 0
	for i < len(bytes) {
		if bytes[i] == '\\' {
			if i+1 >= len(bytes) {
				diags = append(diags, Diagnostic{Message: "unrecognized escape sequence \\"})
				break
			}
			esc := bytes[i+1]
			i += 2
			switch esc {
			case 'a':
				codepoints = append(codepoints, 0x07)
			case 'b':
				codepoints = append(codepoints, 0x08)
			case 'f':
				codepoints = append(codepoints, 0x0C)
			case 'n':
				codepoints = append(codepoints, 0x0A)
			case 'r':
				codepoints = append(codepoints, 0x0D)
			case 't':
				codepoints = append(codepoints, 0x09)
			case 'v':
				codepoints = append(codepoints, 0x0B)
			case '\\':
				codepoints = append(codepoints, '\\')
			case '\'':
				codepoints = append(codepoints, '\'')
			case '"':
				codepoints = append(codepoints, '"')
			case '\n':
				// escaped newline: suppressed, no codepoint emitted.
			default:
				diags = append(diags, Diagnostic{Message: "unrecognized escape sequence \\" + string(esc)})
				codepoints = append(codepoints, int32(esc))
			}
			continue
		}

		cp, size := scanUTF8(bytes[i:])
		if size == 0 {
			diags = append(diags, Diagnostic{Message: "malformed UTF-8 byte sequence"})
			i++
			continue
		}
		codepoints = append(codepoints, cp)
		i += size
	}

	return New(codepoints), diags
}

// scanUTF8 reads a 1-4 byte UTF-8 sequence from the front of b (by its
// leading byte's range, same thresholds as is_u2/is_u3/is_u4) and packs
// its raw bytes big-endian into a single int32. It returns a size of 0
// if b does not start a sequence it recognizes.
func scanUTF8(b []byte) (int32, int) {
	if len(b) == 0 {
		return 0, 0
	}
	lead := b[0]
	n := 1
	switch {
	case lead < 0x80:
		n = 1
	case 0xC2 <= lead && lead <= 0xDF:
		n = 2
	case 0xE0 <= lead && lead <= 0xEF:
		n = 3
	case 0xF0 <= lead && lead <= 0xF4:
		n = 4
	default:
		return 0, 0
	}
	if len(b) < n {
		return 0, 0
	}
	var total int32
	for _, by := range b[:n] {
		total = (total << 8) | int32(by)
	}
	return total, n
}
