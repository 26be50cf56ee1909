// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package rdap

import "testing"

func TestRedactContactDefaultPolicy(t *testing.T) {
	card := ContactCard{
		FullName:  "Jane Doe",
		Emails:    []string{"jane@example.com"},
		Phones:    []string{"+1-555-555-1234"},
		Addresses: []string{"123 Example St, Anytown, US"},
	}

	redacted := redactContact(card, DefaultRedactionPolicy())

	if redacted.FullName != redactedText {
		t.Errorf("FullName = %q, want %q", redacted.FullName, redactedText)
	}
	if redacted.Emails[0] != redactedEmail {
		t.Errorf("Emails[0] = %q, want %q", redacted.Emails[0], redactedEmail)
	}
	if redacted.Phones[0] != redactedText {
		t.Errorf("Phones[0] = %q, want %q", redacted.Phones[0], redactedText)
	}
	if redacted.Addresses[0] != redactedText {
		t.Errorf("Addresses[0] = %q, want %q", redacted.Addresses[0], redactedText)
	}

	// original must be untouched
	if card.Emails[0] != "jane@example.com" {
		t.Errorf("original card was mutated: Emails[0] = %q", card.Emails[0])
	}
}

func TestRedactIdempotent(t *testing.T) {
	card := ContactCard{FullName: "Jane Doe", Emails: []string{"jane@example.com"}}
	policy := DefaultRedactionPolicy()

	once := redactContact(card, policy)
	twice := redactContact(once, policy)

	if once.FullName != twice.FullName || once.Emails[0] != twice.Emails[0] {
		t.Error("redaction is not idempotent")
	}
}

func TestRedactPreservesOrganization(t *testing.T) {
	card := ContactCard{FullName: "Jane Doe", Organization: "Example Corp"}
	policy := DefaultRedactionPolicy()
	policy.PreserveOrganizations = true

	redacted := redactContact(card, policy)
	if redacted.FullName != "Jane Doe" {
		t.Errorf("FullName = %q, want original preserved", redacted.FullName)
	}
}

func TestRedactPreservesCountry(t *testing.T) {
	card := ContactCard{Addresses: []string{"123 Example St, Anytown, US"}}
	policy := DefaultRedactionPolicy()
	policy.PreserveCountryInAddress = true

	redacted := redactContact(card, policy)
	if redacted.Addresses[0] != "REDACTED, US" {
		t.Errorf("Addresses[0] = %q, want %q", redacted.Addresses[0], "REDACTED, US")
	}
}

func TestRedactDomainClearsRawJSON(t *testing.T) {
	d := Domain{}
	d.RawJSON = []byte(`{"foo":"bar"}`)

	redacted := Redact(d, DefaultRedactionPolicy()).(Domain)
	if redacted.RawJSON != nil {
		t.Error("expected RawJSON to be cleared")
	}
}

func TestRedactNoPIINoChange(t *testing.T) {
	d := Domain{LDHName: "example.com"}
	redacted := Redact(d, DefaultRedactionPolicy()).(Domain)

	if redacted.LDHName != "example.com" {
		t.Errorf("LDHName changed unexpectedly: %q", redacted.LDHName)
	}
}
