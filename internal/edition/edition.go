// Package edition maps feature and spec identifiers onto specification
// editions and decides whether a test belongs to a target edition.
package edition

import (
	"fmt"
	"strconv"
	"strings"
)

// Edition is a numbered revision of the language specification.
type Edition int

const (
	ES5  Edition = 5
	ES6  Edition = 6
	ES7  Edition = 7
	ES8  Edition = 8
	ES9  Edition = 9
	ES10 Edition = 10
	ES11 Edition = 11
	ES12 Edition = 12
	ES13 Edition = 13
	ES14 Edition = 14

	// ESNext covers proposals that have not shipped in a numbered edition.
	// It ranks above every numbered edition.
	ESNext Edition = 255
)

// Editions lists every known edition in ascending order.
func Editions() []Edition {
	return []Edition{ES5, ES6, ES7, ES8, ES9, ES10, ES11, ES12, ES13, ES14, ESNext}
}

func (e Edition) String() string {
	if e == ESNext {
		return "ESNext"
	}
	return "ES" + strconv.Itoa(int(e))
}

// Parse accepts "ES5", "es5", "5" and "ESNext"/"next".
func Parse(s string) (Edition, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "es")
	if v == "next" {
		return ESNext, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("unknown edition %q", s)
	}
	for _, e := range Editions() {
		if int(e) == n {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown edition %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (e Edition) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Edition) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
