// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

// Package jcard decodes jCard contact cards (RFC 7095), the JSON
// representation of vCard (RFC 6350) that RDAP embeds in entity vcardArray
// members.
//
// A jCard document looks like:
//
//	["vcard", [
//	  ["version", {}, "text", "4.0"],
//	  ["fn", {}, "text", "Joe Appleseed"],
//	  ["tel", {"type": ["work", "voice"]}, "uri", "tel:+1-555-555-1234"],
//	  ...
//	]]
package jcard

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// JCard is a decoded jCard: an ordered list of properties.
type JCard struct {
	Properties []*Property

	nameLookup map[string][]*Property
}

// Property is a single jCard property: name, parameters, type and value.
//
//	["tel", {"type":["work","voice"]}, "uri", "tel:+1-555-555-1234;ext=555"]
type Property struct {
	Name       string
	Parameters map[string][]string
	Type       string

	// Value is one of string, float64, bool, nil, or []interface{} (which
	// may itself mix any of those, nested up to three levels deep). Use
	// Values for the common case of a flat string representation.
	Value interface{}
}

// Values flattens Value into a []string, converting non-string scalars to
// their string form. This is the common-case accessor for simple
// properties like "fn" or "tel".
func (p *Property) Values() []string {
	var out []string
	appendValueStrings(p.Value, &out)
	return out
}

func appendValueStrings(v interface{}, out *[]string) {
	switch v := v.(type) {
	case nil:
		*out = append(*out, "")
	case bool:
		*out = append(*out, strconv.FormatBool(v))
	case float64:
		*out = append(*out, strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		*out = append(*out, v)
	case []interface{}:
		for _, v2 := range v {
			appendValueStrings(v2, out)
		}
	}
}

// String renders a human-readable, non-parseable debug form.
func (p *Property) String() string {
	return fmt.Sprintf("%s (type=%s, parameters=%v): %v", p.Name, p.Type, p.Parameters, p.Value)
}

func (j *JCard) String() string {
	parts := make([]string, 0, len(j.Properties))
	for _, p := range j.Properties {
		parts = append(parts, "  "+p.String())
	}
	return "jCard[\n" + strings.Join(parts, "\n") + "\n]"
}

// Decode parses a jCard document (the ["vcard", [...]] array RDAP embeds
// under an entity's "vcardArray" key).
func Decode(jsonDocument []byte) (*JCard, error) {
	var top []interface{}
	if err := json.Unmarshal(jsonDocument, &top); err != nil {
		return nil, err
	}

	if len(top) != 2 {
		return nil, jCardError("expected a 2-element [\"vcard\", [...]] array")
	}
	if s, ok := top[0].(string); !ok || s != "vcard" {
		return nil, jCardError("missing leading \"vcard\" element")
	}

	properties, ok := top[1].([]interface{})
	if !ok {
		return nil, jCardError("properties element is not an array")
	}

	j := &JCard{
		Properties: make([]*Property, 0, len(properties)),
		nameLookup: make(map[string][]*Property),
	}

	for _, raw := range properties {
		a, ok := raw.([]interface{})
		if !ok {
			return nil, jCardError("property is not an array")
		}
		if len(a) < 3 {
			return nil, jCardError("property has fewer than 3 elements")
		}

		name, ok := a[0].(string)
		if !ok {
			return nil, jCardError("property name is not a string")
		}

		parameters, err := readParameters(a[1])
		if err != nil {
			return nil, err
		}

		propertyType, ok := a[2].(string)
		if !ok {
			return nil, jCardError("property type is not a string")
		}

		var value interface{}
		if len(a) == 4 {
			value, err = readValue(a[3], 0)
		} else {
			value, err = readValue(a[3:], 0)
		}
		if err != nil {
			// A value of an unsupported shape drops this property only.
			continue
		}

		property := &Property{Name: strings.ToLower(name), Type: propertyType, Parameters: parameters, Value: value}
		j.Properties = append(j.Properties, property)
		j.nameLookup[property.Name] = append(j.nameLookup[property.Name], property)
	}

	return j, nil
}

// Get returns the properties named name (lowercased per RFC 6350 §3.3),
// in document order.
func (j *JCard) Get(name string) []*Property {
	return j.nameLookup[strings.ToLower(name)]
}

// FullName returns the "fn" property's value, or "" if absent.
func (j *JCard) FullName() string {
	if props := j.Get("fn"); len(props) > 0 {
		if v := props[0].Values(); len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// Emails returns every "email" property value.
func (j *JCard) Emails() []string {
	return j.flatten("email")
}

// Phones returns every "tel" property value.
func (j *JCard) Phones() []string {
	return j.flatten("tel")
}

// Addresses returns every "adr" property's structured value, flattened into
// one string per component group.
func (j *JCard) Addresses() [][]string {
	var out [][]string
	for _, p := range j.Get("adr") {
		out = append(out, p.Values())
	}
	return out
}

func (j *JCard) flatten(name string) []string {
	var out []string
	for _, p := range j.Get(name) {
		out = append(out, p.Values()...)
	}
	return out
}

func jCardError(e string) error {
	return fmt.Errorf("rdap: jcard: %s", e)
}

func readParameters(p interface{}) (map[string][]string, error) {
	m, ok := p.(map[string]interface{})
	if !ok {
		return nil, jCardError("parameters element is not an object")
	}

	params := map[string][]string{}
	for k, v := range m {
		switch v := v.(type) {
		case string:
			params[k] = append(params[k], v)
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					params[k] = append(params[k], s)
				}
			}
		}
	}
	return params, nil
}

func readValue(value interface{}, depth int) (interface{}, error) {
	switch value := value.(type) {
	case nil, string, bool, float64:
		return value, nil
	case []interface{}:
		if depth == 3 {
			return nil, jCardError("structured value nested too deeply")
		}

		result := make([]interface{}, 0, len(value))
		for _, v := range value {
			decoded, err := readValue(v, depth+1)
			if err != nil {
				return nil, err
			}
			result = append(result, decoded)
		}
		return result, nil
	default:
		return nil, jCardError("unsupported JSON value type in jCard")
	}
}
