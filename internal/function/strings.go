// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package function

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/gitql/internal/types"
)

func textLower(args []types.Value) (types.Value, error) {
	return types.NewText(strings.ToLower(args[0].AsText())), nil
}

func textUpper(args []types.Value) (types.Value, error) {
	return types.NewText(strings.ToUpper(args[0].AsText())), nil
}

func textReverse(args []types.Value) (types.Value, error) {
	runes := []rune(args[0].AsText())
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return types.NewText(string(runes)), nil
}

func textReplicate(args []types.Value) (types.Value, error) {
	count := int(args[1].AsInt())
	if count < 0 {
		count = 0
	}
	return types.NewText(strings.Repeat(args[0].AsText(), count)), nil
}

func textSpace(args []types.Value) (types.Value, error) {
	n := int(args[0].AsInt())
	if n < 0 {
		n = 0
	}
	return types.NewText(strings.Repeat(" ", n)), nil
}

func textTrim(args []types.Value) (types.Value, error) {
	return types.NewText(strings.TrimSpace(args[0].AsText())), nil
}

func textLeftTrim(args []types.Value) (types.Value, error) {
	return types.NewText(strings.TrimLeftFunc(args[0].AsText(), unicode.IsSpace)), nil
}

func textRightTrim(args []types.Value) (types.Value, error) {
	return types.NewText(strings.TrimRightFunc(args[0].AsText(), unicode.IsSpace)), nil
}

// textLen and textDataLength both report the string's byte length, matching
// the source, which defines both in terms of the same underlying UTF-8 byte
// count.
func textLen(args []types.Value) (types.Value, error) {
	return types.NewInteger(int64(len(args[0].AsText()))), nil
}

func textDataLength(args []types.Value) (types.Value, error) {
	return types.NewInteger(int64(len(args[0].AsText()))), nil
}

func textASCII(args []types.Value) (types.Value, error) {
	text := args[0].AsText()
	if text == "" {
		return types.NewInteger(0), nil
	}
	r := []rune(text)[0]
	return types.NewInteger(int64(r)), nil
}

func textLeft(args []types.Value) (types.Value, error) {
	text := args[0].AsText()
	if text == "" {
		return types.NewText(""), nil
	}
	runes := []rune(text)
	n := args[1].AsInt()
	if n > int64(len(runes)) {
		return types.NewText(text), nil
	}
	if n < 0 {
		n = 0
	}
	return types.NewText(string(runes[:n])), nil
}

func textChar(args []types.Value) (types.Value, error) {
	code := args[0].AsInt()
	if code < 0 || code > unicode.MaxRune || !utf8.ValidRune(rune(code)) {
		return types.NewText(""), nil
	}
	return types.NewText(string(rune(code))), nil
}

// textReplace performs a case-insensitive find of old within text,
// preserving the original casing of unmatched portions and substituting
// new for every match.
func textReplace(args []types.Value) (types.Value, error) {
	text := args[0].AsText()
	old := args[1].AsText()
	new := args[2].AsText()
	if old == "" {
		return types.NewText(text), nil
	}

	lowerText := strings.ToLower(text)
	lowerOld := strings.ToLower(old)

	var b strings.Builder
	end := 0
	for {
		idx := strings.Index(lowerText[end:], lowerOld)
		if idx < 0 {
			break
		}
		begin := end + idx
		b.WriteString(text[end:begin])
		b.WriteString(new)
		end = begin + len(old)
	}
	b.WriteString(text[end:])
	return types.NewText(b.String()), nil
}

// textSubstring takes a 1-indexed start, matching the source's SQL-style
// convention rather than Go's 0-indexed slicing.
func textSubstring(args []types.Value) (types.Value, error) {
	text := args[0].AsText()
	start := args[1].AsInt() - 1
	length := args[2].AsInt()

	if start < 0 || start > int64(len(text)) || length > int64(len(text)) {
		return types.NewText(text), nil
	}
	if length < 0 {
		return types.NewText(""), nil
	}
	end := start + length
	if end > int64(len(text)) {
		end = int64(len(text))
	}
	return types.NewText(text[start:end]), nil
}

func textStuff(args []types.Value) (types.Value, error) {
	text := args[0].AsText()
	if text == "" {
		return types.NewText(text), nil
	}
	start := args[1].AsInt() - 1
	length := args[2].AsInt()
	newString := args[3].AsText()

	runes := []rune(text)
	if start < 0 || start > int64(len(runes)) || length > int64(len(runes)) {
		return types.NewText(text), nil
	}
	end := start + length
	if end > int64(len(runes)) {
		end = int64(len(runes))
	}

	result := make([]rune, 0, len(runes))
	result = append(result, runes[:start]...)
	result = append(result, []rune(newString)...)
	result = append(result, runes[end:]...)
	return types.NewText(string(result)), nil
}

func textRight(args []types.Value) (types.Value, error) {
	text := args[0].AsText()
	if text == "" {
		return types.NewText(""), nil
	}
	runes := []rune(text)
	n := args[1].AsInt()
	if n > int64(len(runes)) {
		return types.NewText(text), nil
	}
	if n < 0 {
		n = 0
	}
	return types.NewText(string(runes[int64(len(runes))-n:])), nil
}

func textTranslate(args []types.Value) (types.Value, error) {
	text := args[0].AsText()
	characters := []rune(args[1].AsText())
	translations := []rune(args[2].AsText())

	if len(translations) != len(characters) {
		return types.NewText(""), nil
	}

	for idx, letter := range characters {
		text = strings.ReplaceAll(text, string(letter), string(translations[idx]))
	}
	return types.NewText(text), nil
}

func textUnicode(args []types.Value) (types.Value, error) {
	text := args[0].AsText()
	if text == "" {
		return types.NewInteger(0), nil
	}
	return types.NewInteger(int64([]rune(text)[0])), nil
}

var soundexCodes = map[rune]byte{
	'B': '1', 'F': '1', 'P': '1', 'V': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

func textSoundex(args []types.Value) (types.Value, error) {
	text := args[0].AsText()
	if text == "" {
		return types.NewText(""), nil
	}

	runes := []rune(text)
	var b strings.Builder
	b.WriteRune(runes[0])

	for idx, letter := range runes {
		if idx == 0 {
			continue
		}
		upper := unicode.ToUpper(letter)
		if code, ok := soundexCodes[upper]; ok {
			b.WriteByte(code)
			if b.Len() == 4 {
				return types.NewText(b.String()), nil
			}
		}
	}

	for b.Len() < 4 {
		b.WriteByte('0')
	}
	return types.NewText(b.String()), nil
}

func textConcat(args []types.Value) (types.Value, error) {
	var b strings.Builder
	for _, v := range args {
		b.WriteString(v.AsText())
	}
	return types.NewText(b.String()), nil
}
