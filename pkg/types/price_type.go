package types

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// PriceType selects which value of a bar a derived series is calculated from.
type PriceType string

const (
	PriceTypeOpen     PriceType = "OPEN"
	PriceTypeHigh     PriceType = "HIGH"
	PriceTypeLow      PriceType = "LOW"
	PriceTypeClose    PriceType = "CLOSE"
	PriceTypeAdjClose PriceType = "ADJCLOSE"
	PriceTypeMid      PriceType = "MID"
	PriceTypeTypical  PriceType = "TYPICAL"
)

var ErrInvalidPriceType = errors.New("invalid price type")

// ParsePriceType parses a price type case-insensitively, an empty string means close.
func ParsePriceType(s string) (p PriceType, err error) {
	if s == "" {
		return PriceTypeClose, nil
	}

	p = PriceType(strings.ToUpper(strings.ReplaceAll(s, "_", "")))
	switch p {
	case PriceTypeOpen, PriceTypeHigh, PriceTypeLow, PriceTypeClose, PriceTypeAdjClose, PriceTypeMid, PriceTypeTypical:
		return p, nil
	}

	return p, errors.Wrapf(ErrInvalidPriceType, "given %q", s)
}

func (p *PriceType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	t, err := ParsePriceType(s)
	if err != nil {
		return err
	}

	*p = t
	return nil
}

func (p *PriceType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	t, err := ParsePriceType(s)
	if err != nil {
		return err
	}

	*p = t
	return nil
}

// Map returns the price of the bar selected by p, close is used for unknown types.
func (p PriceType) Map(bar Bar) float64 {
	switch p {
	case PriceTypeOpen:
		return bar.Open
	case PriceTypeHigh:
		return bar.High
	case PriceTypeLow:
		return bar.Low
	case PriceTypeAdjClose:
		return bar.AdjClose
	case PriceTypeMid:
		return bar.Mid()
	case PriceTypeTypical:
		return bar.Typical()
	}

	return bar.Close
}
