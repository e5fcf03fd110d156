// Package codec implements the reversible display transform applied to
// 16 digit hexadecimal identifiers.
//
// A Table maps every hex digit to a short list of equivalent glyphs.  Encoding
// picks one glyph per digit at random, decoding maps each glyph back to its
// digit.  An optional key reorders the digits with a permutation derived from
// a hash of the key.  The transform hides the allocation order of identifiers
// from casual readers; it is not encryption.
package codec
