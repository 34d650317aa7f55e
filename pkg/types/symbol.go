package types

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const MaxSymbolLength = 5

// Symbol is the normalized (upper case) name of one tradable instrument.
type Symbol string

// NewSymbol trims the surrounding spaces of s and upper cases it. Symbols with
// inner spaces, and symbols longer than MaxSymbolLength characters, are invalid.
func NewSymbol(s string) (Symbol, error) {
	trimmed := strings.TrimSpace(s)
	n := utf8.RuneCountInString(trimmed)
	if n == 0 || n > MaxSymbolLength || strings.IndexFunc(trimmed, unicode.IsSpace) >= 0 {
		return "", errors.Wrapf(ErrInvalidSymbol, "given %q", s)
	}

	return Symbol(strings.ToUpper(trimmed)), nil
}

// MustSymbol is like NewSymbol but panics on invalid input.
func MustSymbol(s string) Symbol {
	symbol, err := NewSymbol(s)
	if err != nil {
		panic(err)
	}

	return symbol
}

// ParseSymbols parses a list of strings into symbols, it stops at the first invalid symbol.
func ParseSymbols(ss []string) ([]Symbol, error) {
	symbols := make([]Symbol, 0, len(ss))
	for _, s := range ss {
		symbol, err := NewSymbol(s)
		if err != nil {
			return nil, err
		}

		symbols = append(symbols, symbol)
	}

	return symbols, nil
}

func (s Symbol) String() string {
	return string(s)
}

func (s *Symbol) UnmarshalText(data []byte) error {
	symbol, err := NewSymbol(string(data))
	if err != nil {
		return err
	}

	*s = symbol
	return nil
}

func (s *Symbol) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	return s.UnmarshalText([]byte(str))
}

func (s *Symbol) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}

	return s.UnmarshalText([]byte(str))
}

type SymbolSlice []Symbol

func (s SymbolSlice) Strings() []string {
	var ss = make([]string, len(s))
	for i, symbol := range s {
		ss[i] = string(symbol)
	}

	return ss
}

func (s SymbolSlice) Contains(symbol Symbol) bool {
	for _, o := range s {
		if o == symbol {
			return true
		}
	}

	return false
}
