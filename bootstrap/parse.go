// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package bootstrap

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
)

// registryFile is the parsed form of an IANA bootstrap Service Registry
// document (RFC 7484 §3): a top-level object with a "services" array, each
// element of which is a two-element array of [keys, base URLs].
type registryFile struct {
	Description string
	Publication string
	Version     string

	// Entries maps each service key (a TLD label, a CIDR block, or an ASN
	// range string) to its ordered list of RDAP base URLs.
	Entries map[string][]*url.URL

	JSON []byte
}

func parse(jsonDocument []byte) (*registryFile, error) {
	var doc struct {
		Description string          `json:"description"`
		Publication string          `json:"publication"`
		Version     string          `json:"version"`
		Services    [][][]string    `json:"services"`
	}

	if err := json.Unmarshal(jsonDocument, &doc); err != nil {
		return nil, fmt.Errorf("rdap: parsing bootstrap document: %w", err)
	}

	r := &registryFile{
		Description: doc.Description,
		Publication: doc.Publication,
		Version:     doc.Version,
		Entries:     make(map[string][]*url.URL),
		JSON:        jsonDocument,
	}

	for _, service := range doc.Services {
		if len(service) != 2 {
			return nil, errors.New("rdap: malformed bootstrap document (services entry is not [keys, urls])")
		}

		keys := service[0]
		rawURLs := service[1]

		var urls []*url.URL
		for _, rawURL := range rawURLs {
			u, err := url.Parse(rawURL)
			if err != nil || !u.IsAbs() {
				// Ignore unparsable or relative URLs; one bad mirror
				// shouldn't sink the whole entry.
				continue
			}
			urls = append(urls, u)
		}

		if len(urls) == 0 {
			continue
		}

		for _, key := range keys {
			r.Entries[key] = urls
		}
	}

	return r, nil
}
