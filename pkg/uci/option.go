package uci

import (
	"errors"
	"fmt"
	"strconv"
)

type optionKind int

const (
	kindCheck optionKind = iota
	kindSpin
)

// Option is a single UCI setoption entry. Rather than a distinct struct per
// UCI option type (check, spin, ...), one concrete type carries a kind for
// rendering the "uci" handshake line plus a parser closure for Set, so a new
// option kind is a new constructor rather than a new UciName/UciString/Set
// trio.
type Option struct {
	name          string
	kind          optionKind
	defaultString string
	rangeString   string
	apply         func(string) error
}

func (o *Option) UciName() string { return o.name }

func (o *Option) UciString() string {
	switch o.kind {
	case kindCheck:
		return fmt.Sprintf("option name %s type check default %s", o.name, o.defaultString)
	default:
		return fmt.Sprintf("option name %s type spin default %s %s", o.name, o.defaultString, o.rangeString)
	}
}

func (o *Option) Set(s string) error { return o.apply(s) }

// NewBoolOption exposes *value as a UCI "check" option.
func NewBoolOption(name string, value *bool) *Option {
	return &Option{
		name:          name,
		kind:          kindCheck,
		defaultString: strconv.FormatBool(*value),
		apply: func(s string) error {
			var v, err = strconv.ParseBool(s)
			if err != nil {
				return err
			}
			*value = v
			return nil
		},
	}
}

// NewIntOption exposes *value as a UCI "spin" option bounded to [min, max].
func NewIntOption(name string, min, max int, value *int) *Option {
	return &Option{
		name:          name,
		kind:          kindSpin,
		defaultString: strconv.Itoa(*value),
		rangeString:   fmt.Sprintf("min %d max %d", min, max),
		apply: func(s string) error {
			var v, err = strconv.Atoi(s)
			if err != nil {
				return err
			}
			if v < min || v > max {
				return errors.New("argument out of range")
			}
			*value = v
			return nil
		},
	}
}
