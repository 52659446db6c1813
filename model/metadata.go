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

package model

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// doiPattern matches a bare DOI such as "10.5281/zenodo.123".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// Authority is the organisation responsible for an entity's data.
type Authority struct {
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	ShortName string `json:"short_name,omitempty" yaml:"short_name,omitempty"`
	Website   string `json:"website,omitempty" yaml:"website,omitempty"`
}

// Citation tells users how to cite the data.
type Citation struct {
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	DOI  string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// Metadata is descriptive information attached to a Configuration.
// It has no effect on resolution.
type Metadata struct {
	Description     string     `json:"description,omitempty" yaml:"description,omitempty"`
	Authority       *Authority `json:"authority,omitempty" yaml:"authority,omitempty"`
	Keywords        []string   `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	RepositoryURL   string     `json:"repository_url,omitempty" yaml:"repository_url,omitempty"`
	Citation        *Citation  `json:"citation,omitempty" yaml:"citation,omitempty"`
	Maintainer      string     `json:"maintainer,omitempty" yaml:"maintainer,omitempty"`
	MaintainerEmail string     `json:"maintainer_email,omitempty" yaml:"maintainer_email,omitempty"`
}

// Validate checks URLs, the maintainer address and the DOI.
func (m *Metadata) Validate() error {
	if m == nil {
		return nil
	}
	if m.Authority != nil {
		if err := checkURL("authority.website", m.Authority.Website); err != nil {
			return err
		}
	}
	if err := checkURL("repository_url", m.RepositoryURL); err != nil {
		return err
	}
	if m.MaintainerEmail != "" {
		if _, err := mail.ParseAddress(m.MaintainerEmail); err != nil {
			return fmt.Errorf("maintainer_email: %w", err)
		}
	}
	if m.Citation != nil && m.Citation.DOI != "" && !doiPattern.MatchString(m.Citation.DOI) {
		return fmt.Errorf("citation.doi: %q is not a DOI", m.Citation.DOI)
	}
	return nil
}

// clone returns a deep copy with keywords deduplicated and sorted.
func (m *Metadata) clone() *Metadata {
	if m == nil {
		return nil
	}
	out := *m
	if m.Authority != nil {
		a := *m.Authority
		out.Authority = &a
	}
	if m.Citation != nil {
		c := *m.Citation
		out.Citation = &c
	}
	out.Keywords = nil
	for _, k := range m.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			out.Keywords = append(out.Keywords, k)
		}
	}
	slices.Sort(out.Keywords)
	out.Keywords = slices.Compact(out.Keywords)
	return &out
}

func checkURL(option, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", option, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: %q is not an absolute http(s) URL", option, raw)
	}
	return nil
}
