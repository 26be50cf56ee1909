// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package jcard

import "testing"

const sampleDocument = `["vcard", [
  ["version", {}, "text", "4.0"],
  ["fn", {}, "text", "Joe Appleseed"],
  ["email", {"type": "work"}, "text", "joe@example.com"],
  ["tel", {"type": ["work", "voice"]}, "uri", "tel:+1-555-555-1234"],
  ["adr", {}, "text", ["", "", "123 Example St", "Anytown", "CA", "91921", "US"]]
]]`

func TestDecode(t *testing.T) {
	j, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if got := j.FullName(); got != "Joe Appleseed" {
		t.Errorf("FullName() = %q, want %q", got, "Joe Appleseed")
	}

	if emails := j.Emails(); len(emails) != 1 || emails[0] != "joe@example.com" {
		t.Errorf("Emails() = %v", emails)
	}

	if phones := j.Phones(); len(phones) != 1 || phones[0] != "tel:+1-555-555-1234" {
		t.Errorf("Phones() = %v", phones)
	}

	addrs := j.Addresses()
	if len(addrs) != 1 || len(addrs[0]) != 7 || addrs[0][2] != "123 Example St" {
		t.Errorf("Addresses() = %v", addrs)
	}

	tel := j.Get("tel")
	if len(tel) != 1 {
		t.Fatalf("Get(\"tel\") returned %d properties, want 1", len(tel))
	}
	if tel[0].Parameters["type"][0] != "work" {
		t.Errorf("tel parameters = %v", tel[0].Parameters)
	}
}

func TestDecodeRejectsMissingVCardTag(t *testing.T) {
	if _, err := Decode([]byte(`["notvcard", []]`)); err == nil {
		t.Error("expected error for missing vcard tag")
	}
}

func TestDecodeRejectsMalformedProperty(t *testing.T) {
	if _, err := Decode([]byte(`["vcard", [["fn"]]]`)); err == nil {
		t.Error("expected error for short property array")
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestGetUnknownPropertyReturnsEmpty(t *testing.T) {
	j, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got := j.Get("nickname"); got != nil {
		t.Errorf("Get(\"nickname\") = %v, want nil", got)
	}
}
