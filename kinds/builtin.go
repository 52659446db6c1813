/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package kinds

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"dirpx.dev/modelreg/apis"
)

func builtin() map[apis.Kind]Behavior {
	text := func(widget string, v func(string) error) Behavior {
		return Behavior{
			Input:  Input{Widget: widget},
			Column: Column{Sortable: true, Align: AlignLeft},
			Filter: Filter{Lookup: LookupIContains, Validate: v},
			Wire:   Wire{Scalar: "String"},
			Export: Export{Format: "text"},
			Admin:  Admin{Searchable: true},
		}
	}
	number := func(scalar string, v func(string) error) Behavior {
		return Behavior{
			Input:  Input{Widget: "number"},
			Column: Column{Sortable: true, Align: AlignRight},
			Filter: Filter{Lookup: LookupRange, Validate: v},
			Wire:   Wire{Scalar: scalar},
			Export: Export{Format: "number"},
		}
	}
	temporal := func(widget, scalar, layout string, v func(string) error) Behavior {
		return Behavior{
			Input:  Input{Widget: widget},
			Column: Column{Sortable: true, Align: AlignLeft},
			Filter: Filter{Lookup: LookupRange, Validate: v},
			Wire:   Wire{Scalar: scalar, Custom: true},
			Export: Export{Format: layout},
			Admin:  Admin{ListFilter: true},
		}
	}

	longText := text("textarea", nil)
	longText.Column.Sortable = false

	email := text("email", validateEmail)
	email.Wire = Wire{Scalar: "Email", Custom: true}
	email.Filter.Lookup = LookupExact

	link := text("url", validateURL)
	link.Wire = Wire{Scalar: "URL", Custom: true}
	link.Filter.Lookup = LookupExact

	slug := text("slug", nil)
	slug.Filter.Lookup = LookupExact

	decimal := number("Decimal", validateFloat)
	decimal.Wire.Custom = true

	duration := temporal("duration", "Duration", "duration", validateDuration)
	duration.Column.Align = AlignRight
	duration.Admin.ListFilter = false

	return map[apis.Kind]Behavior{
		apis.KindString:   text("text", nil),
		apis.KindText:     longText,
		apis.KindEmail:    email,
		apis.KindURL:      link,
		apis.KindSlug:     slug,
		apis.KindInt:      number("Int", validateInt),
		apis.KindFloat:    number("Float", validateFloat),
		apis.KindDecimal:  decimal,
		apis.KindDate:     temporal("date", "Date", time.DateOnly, validateLayout(time.DateOnly)),
		apis.KindDateTime: temporal("datetime", "DateTime", time.RFC3339, validateLayout(time.RFC3339)),
		apis.KindTime:     temporal("time", "Time", time.TimeOnly, validateLayout(time.TimeOnly)),
		apis.KindDuration: duration,
		apis.KindBool: {
			Input:  Input{Widget: "checkbox"},
			Column: Column{Sortable: true, Align: AlignCenter},
			Filter: Filter{Lookup: LookupBoolean, Validate: validateBool},
			Wire:   Wire{Scalar: "Boolean"},
			Export: Export{Format: "bool"},
			Admin:  Admin{ListFilter: true},
		},
		apis.KindUUID: {
			Input:  Input{Widget: "text"},
			Column: Column{Align: AlignLeft},
			Filter: Filter{Lookup: LookupExact, Validate: validateUUID},
			Wire:   Wire{Scalar: "ID"},
			Export: Export{Format: "uuid"},
		},
		apis.KindEnum: {
			Input:  Input{Widget: "select"},
			Column: Column{Sortable: true, Align: AlignLeft},
			Filter: Filter{Lookup: LookupIn},
			Wire:   Wire{Scalar: "String"},
			Export: Export{Format: "text"},
			Admin:  Admin{ListFilter: true},
		},
		apis.KindJSON: {
			Input:  Input{Widget: "json"},
			Column: Column{Omit: true},
			Filter: Filter{Omit: true},
			Wire:   Wire{Scalar: "JSON", Custom: true},
			Export: Export{Format: "json"},
			Admin:  Admin{Omit: true},
		},
		apis.KindBytes: {
			Input:  Input{Widget: "file"},
			Column: Column{Omit: true},
			Filter: Filter{Lookup: LookupIsNull, Validate: validateBool},
			Wire:   Wire{Scalar: "Bytes", Custom: true},
			Export: Export{Omit: true},
			Admin:  Admin{Omit: true},
		},
		apis.KindForeignKey: {
			Input:  Input{Widget: "select"},
			Column: Column{Sortable: true, Align: AlignLeft},
			Filter: Filter{Lookup: LookupExact},
			Wire:   Wire{Scalar: "ID"},
			Export: Export{Format: "key"},
			Admin:  Admin{ListFilter: true},
		},
		apis.KindOneToOne: {
			Input:  Input{Widget: "select"},
			Column: Column{Sortable: true, Align: AlignLeft},
			Filter: Filter{Lookup: LookupExact},
			Wire:   Wire{Scalar: "ID"},
			Export: Export{Format: "key"},
		},
		apis.KindManyToMany: {
			Input:  Input{Widget: "multiselect"},
			Column: Column{Omit: true},
			Filter: Filter{Lookup: LookupIn},
			Wire:   Wire{Scalar: "ID"},
			Export: Export{Format: "keys"},
			Admin:  Admin{ListFilter: true},
		},
	}
}

var errEmptyValue = errors.New("empty value")

func validateInt(s string) error {
	return eachRange(s, func(v string) error {
		_, err := strconv.ParseInt(v, 10, 64)
		return err
	})
}

func validateFloat(s string) error {
	return eachRange(s, func(v string) error {
		_, err := strconv.ParseFloat(v, 64)
		return err
	})
}

func validateBool(s string) error {
	_, err := strconv.ParseBool(strings.TrimSpace(s))
	return err
}

func validateDuration(s string) error {
	return eachRange(s, func(v string) error {
		_, err := time.ParseDuration(v)
		return err
	})
}

func validateLayout(layout string) func(string) error {
	return func(s string) error {
		return eachRange(s, func(v string) error {
			_, err := time.Parse(layout, v)
			return err
		})
	}
}

func validateUUID(s string) error {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err
}

func validateEmail(s string) error {
	_, err := mail.ParseAddress(strings.TrimSpace(s))
	return err
}

func validateURL(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q is not absolute", s)
	}
	return nil
}

// eachRange accepts a single value or a "lo..hi" range. Either bound of a
// range may be empty, but not both.
func eachRange(s string, check func(string) error) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errEmptyValue
	}
	lo, hi, isRange := strings.Cut(s, "..")
	if !isRange {
		return check(s)
	}
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)
	if lo == "" && hi == "" {
		return errEmptyValue
	}
	for _, v := range []string{lo, hi} {
		if v == "" {
			continue
		}
		if err := check(v); err != nil {
			return err
		}
	}
	return nil
}
