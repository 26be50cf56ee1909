// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package rdap

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rdapify/rdap/internal/jcard"
)

// maxEntityDepth bounds recursive entity nesting (spec.md §9 "Cyclic
// entity graphs"): the child entities of an entity at this depth are dropped,
// neither followed nor flattened, and that entity gets NestingTruncated set,
// so a malicious server can't exhaust the stack with a deeply nested document.
const maxEntityDepth = 8

// statusTable folds case variants and registry-specific spellings to the
// canonical RFC 7483 §10.2.2 status tokens.
var statusTable = map[string]string{
	"active":                    "active",
	"inactive":                  "inactive",
	"ok":                        "active",
	"associated":                "associated",
	"pending create":            "pending create",
	"pendingcreate":             "pending create",
	"pending delete":            "pending delete",
	"pendingdelete":             "pending delete",
	"pending renew":             "pending renew",
	"pendingrenew":              "pending renew",
	"pending restore":           "pending restore",
	"pendingrestore":            "pending restore",
	"pending transfer":          "pending transfer",
	"pendingtransfer":           "pending transfer",
	"pending update":            "pending update",
	"pendingupdate":             "pending update",
	"redemption period":         "redemption period",
	"redemptionperiod":          "redemption period",
	"renew prohibited":          "renew prohibited",
	"renewprohibited":           "renew prohibited",
	"server delete prohibited":  "server delete prohibited",
	"serverdeleteprohibited":    "server delete prohibited",
	"server renew prohibited":   "server renew prohibited",
	"serverrenewprohibited":     "server renew prohibited",
	"server transfer prohibited": "server transfer prohibited",
	"servertransferprohibited":   "server transfer prohibited",
	"server update prohibited":   "server update prohibited",
	"serverupdateprohibited":     "server update prohibited",
	"transfer prohibited":        "transfer prohibited",
	"transferprohibited":         "transfer prohibited",
	"update prohibited":          "update prohibited",
	"updateprohibited":           "update prohibited",
	"delete prohibited":          "delete prohibited",
	"deleteprohibited":           "delete prohibited",
	"clienttransferprohibited":   "client transfer prohibited",
	"client transfer prohibited": "client transfer prohibited",
	"clientdeleteprohibited":     "client delete prohibited",
	"client delete prohibited":   "client delete prohibited",
	"clientrenewprohibited":      "client renew prohibited",
	"client renew prohibited":    "client renew prohibited",
	"clientupdateprohibited":     "client update prohibited",
	"client update prohibited":   "client update prohibited",
	"clienthold":                 "client hold",
	"client hold":                "client hold",
	"serverhold":                 "server hold",
	"server hold":                "server hold",
	"locked":                     "locked",
	"validated":                  "validated",
	"removed":                    "removed",
	"obscured":                   "obscured",
	"administrative":             "administrative",
	"proxy":                      "proxy",
	"private":                    "private",
	"injected":                   "injected",
}

func normalizeStatusToken(token string) (canonical string, known bool) {
	key := strings.ToLower(strings.TrimSpace(token))
	if canon, ok := statusTable[key]; ok {
		return canon, true
	}
	return token, false
}

func normalizeStatuses(raw []string) (status, rawStatus []string) {
	status = []string{}
	rawStatus = []string{}
	for _, token := range raw {
		canon, known := normalizeStatusToken(token)
		if known {
			status = append(status, canon)
		} else {
			rawStatus = append(rawStatus, token)
		}
	}
	return status, rawStatus
}

// rdapEvent mirrors the RFC 7483 §4.5 "events" array shape.
type rdapEvent struct {
	EventAction string `json:"eventAction"`
	EventDate   string `json:"eventDate"`
}

func normalizeEvents(raw json.RawMessage) ([]Event, error) {
	if len(raw) == 0 {
		return []Event{}, nil
	}

	var rawEvents []rdapEvent
	if err := json.Unmarshal(raw, &rawEvents); err != nil {
		return nil, &Error{Kind: MalformedResponse, Path: "events", Message: err.Error(), Timestamp: timeNow()}
	}

	events := make([]Event, 0, len(rawEvents))
	for _, e := range rawEvents {
		t, err := parseRDAPDate(e.EventDate)
		if err != nil {
			return nil, &Error{Kind: MalformedResponse, Path: "events[].eventDate", Message: err.Error(), Timestamp: timeNow()}
		}
		events = append(events, Event{Type: e.EventAction, Date: t})
	}
	return events, nil
}

func parseRDAPDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

type rdapNotice struct {
	Title       string   `json:"title"`
	Description []string `json:"description"`
}

func normalizeNotices(raw json.RawMessage) ([]Notice, error) {
	if len(raw) == 0 {
		return []Notice{}, nil
	}
	var rawNotices []rdapNotice
	if err := json.Unmarshal(raw, &rawNotices); err != nil {
		return nil, &Error{Kind: MalformedResponse, Path: "notices", Message: err.Error(), Timestamp: timeNow()}
	}
	notices := make([]Notice, 0, len(rawNotices))
	for _, n := range rawNotices {
		notices = append(notices, Notice{Title: n.Title, Description: n.Description})
	}
	return notices, nil
}

// rdapEntity mirrors one element of an RDAP "entities" array.
type rdapEntity struct {
	Handle      string          `json:"handle"`
	Roles       []string        `json:"roles"`
	VCardArray  json.RawMessage `json:"vcardArray"`
	Entities    []rdapEntity    `json:"entities"`
}

func normalizeEntities(raw json.RawMessage, depth int) ([]Entity, error) {
	if len(raw) == 0 {
		return []Entity{}, nil
	}

	var rawEntities []rdapEntity
	if err := json.Unmarshal(raw, &rawEntities); err != nil {
		return nil, &Error{Kind: MalformedResponse, Path: "entities", Message: err.Error(), Timestamp: timeNow()}
	}

	out := make([]Entity, 0, len(rawEntities))
	for _, re := range rawEntities {
		entity, err := normalizeEntity(re, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func normalizeEntity(re rdapEntity, depth int) (Entity, error) {
	entity := Entity{
		Handle:       re.Handle,
		Roles:        re.Roles,
		NestingDepth: depth,
	}
	if entity.Roles == nil {
		entity.Roles = []string{}
	}

	if len(re.VCardArray) > 0 {
		card, err := decodeContactCard(re.VCardArray, re.Roles)
		if err != nil {
			return Entity{}, err
		}
		entity.Contact = card
	}

	if depth >= maxEntityDepth {
		entity.NestingTruncated = len(re.Entities) > 0
		entity.Entities = []Entity{}
		return entity, nil
	}

	children := make([]Entity, 0, len(re.Entities))
	for _, child := range re.Entities {
		c, err := normalizeEntity(child, depth+1)
		if err != nil {
			return Entity{}, err
		}
		children = append(children, c)
	}
	entity.Entities = children

	return entity, nil
}

// decodeContactCard decodes the jCard in vcardArray defensively: any
// property with an unexpected value type is skipped rather than failing
// the whole document (spec.md §9 "jCard parsing").
func decodeContactCard(vcardArray json.RawMessage, roles []string) (ContactCard, error) {
	jc, err := jcard.Decode(vcardArray)
	if err != nil {
		// A malformed vcardArray doesn't sink the whole response; the
		// entity is kept with an empty contact card.
		return ContactCard{Roles: roles}, nil
	}

	card := ContactCard{
		Roles:    roles,
		FullName: jc.FullName(),
		Emails:   jc.Emails(),
		Phones:   jc.Phones(),
	}
	if card.Emails == nil {
		card.Emails = []string{}
	}
	if card.Phones == nil {
		card.Phones = []string{}
	}

	if org := jc.Get("org"); len(org) > 0 {
		if v := org[0].Values(); len(v) > 0 {
			card.Organization = v[0]
		}
	}
	if kind := jc.Get("kind"); len(kind) > 0 {
		if v := kind[0].Values(); len(v) > 0 {
			card.Kind = v[0]
		}
	}

	card.Addresses = []string{}
	for _, parts := range jc.Addresses() {
		if line := joinAddress(parts); line != "" {
			card.Addresses = append(card.Addresses, line)
		}
	}

	return card, nil
}

// joinAddress joins a jCard "adr" 7-tuple (RFC 6350 §6.3.1: post office
// box, extended address, street, locality, region, postal code, country)
// into a single-line, comma-space-separated address, skipping empty
// components.
func joinAddress(parts []string) string {
	var nonEmpty []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func findRegistrar(entities []Entity) *Registrar {
	for _, e := range entities {
		if hasRole(e.Roles, "registrar") {
			reg := &Registrar{
				Handle:  e.Handle,
				Name:    e.Contact.FullName,
				Contact: e.Contact,
			}
			return reg
		}
	}
	return nil
}

// rdapCommon is the JSON shape every RDAP object response shares.
type rdapCommon struct {
	Handle  string          `json:"handle"`
	Status  []string        `json:"status"`
	Events  json.RawMessage `json:"events"`
	Notices json.RawMessage `json:"notices"`
	Port43  string          `json:"port43"`
}

func normalizeCommon(raw json.RawMessage) (commonFields, error) {
	var c rdapCommon
	if err := json.Unmarshal(raw, &c); err != nil {
		return commonFields{}, &Error{Kind: MalformedResponse, Path: "$", Message: err.Error(), Timestamp: timeNow()}
	}

	status, rawStatus := normalizeStatuses(c.Status)

	events, err := normalizeEvents(c.Events)
	if err != nil {
		return commonFields{}, err
	}

	notices, err := normalizeNotices(c.Notices)
	if err != nil {
		return commonFields{}, err
	}

	return commonFields{
		Handle:    c.Handle,
		Status:    status,
		RawStatus: rawStatus,
		Events:    events,
		Notices:   notices,
		Port43:    c.Port43,
		RawJSON:   raw,
	}, nil
}

// rdapDomain mirrors the RDAP domain object (RFC 9083 §5).
type rdapDomain struct {
	LDHName     string          `json:"ldhName"`
	UnicodeName string          `json:"unicodeName"`
	Nameservers json.RawMessage `json:"nameservers"`
	Entities    json.RawMessage `json:"entities"`
}

type rdapNameserver struct {
	LDHName      string `json:"ldhName"`
	IPAddresses  struct {
		V4 []string `json:"v4"`
		V6 []string `json:"v6"`
	} `json:"ipAddresses"`
}

// NormalizeDomain normalizes a parsed RDAP domain response.
func NormalizeDomain(raw json.RawMessage) (*Domain, error) {
	common, err := normalizeCommon(raw)
	if err != nil {
		return nil, err
	}

	var d rdapDomain
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, &Error{Kind: MalformedResponse, Path: "$", Message: err.Error(), Timestamp: timeNow()}
	}

	entities, err := normalizeEntities(d.Entities, 0)
	if err != nil {
		return nil, err
	}

	nameservers := []Nameserver{}
	if len(d.Nameservers) > 0 {
		var rawNS []rdapNameserver
		if err := json.Unmarshal(d.Nameservers, &rawNS); err != nil {
			return nil, &Error{Kind: MalformedResponse, Path: "nameservers", Message: err.Error(), Timestamp: timeNow()}
		}
		for _, ns := range rawNS {
			entry := Nameserver{LDHName: ns.LDHName}
			for _, s := range ns.IPAddresses.V4 {
				if ip := net.ParseIP(s); ip != nil {
					entry.IPv4 = append(entry.IPv4, ip)
				}
			}
			for _, s := range ns.IPAddresses.V6 {
				if ip := net.ParseIP(s); ip != nil {
					entry.IPv6 = append(entry.IPv6, ip)
				}
			}
			nameservers = append(nameservers, entry)
		}
	}

	return &Domain{
		commonFields: common,
		LDHName:      d.LDHName,
		UnicodeName:  d.UnicodeName,
		Nameservers:  nameservers,
		Entities:     entities,
		Registrar:    findRegistrar(entities),
	}, nil
}

// rdapIPNetwork mirrors the RDAP ip network object (RFC 9083 §5.4).
type rdapIPNetwork struct {
	StartAddress string          `json:"startAddress"`
	EndAddress   string          `json:"endAddress"`
	Name         string          `json:"name"`
	Country      string          `json:"country"`
	ParentHandle string          `json:"parentHandle"`
	Entities     json.RawMessage `json:"entities"`
}

// NormalizeIPNetwork normalizes a parsed RDAP IP network response.
func NormalizeIPNetwork(raw json.RawMessage) (*IPNetwork, error) {
	common, err := normalizeCommon(raw)
	if err != nil {
		return nil, err
	}

	var n rdapIPNetwork
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, &Error{Kind: MalformedResponse, Path: "$", Message: err.Error(), Timestamp: timeNow()}
	}

	entities, err := normalizeEntities(n.Entities, 0)
	if err != nil {
		return nil, err
	}

	return &IPNetwork{
		commonFields: common,
		StartAddress: net.ParseIP(n.StartAddress),
		EndAddress:   net.ParseIP(n.EndAddress),
		Country:      n.Country,
		ParentHandle: n.ParentHandle,
		Entities:     entities,
	}, nil
}

// rdapAutnum mirrors the RDAP autnum object (RFC 9083 §5.5).
type rdapAutnum struct {
	StartAutnum  json.Number     `json:"startAutnum"`
	EndAutnum    json.Number     `json:"endAutnum"`
	Country      string          `json:"country"`
	ParentHandle string          `json:"parentHandle"`
	Entities     json.RawMessage `json:"entities"`
}

// NormalizeAutnum normalizes a parsed RDAP autnum response.
func NormalizeAutnum(raw json.RawMessage) (*Autnum, error) {
	common, err := normalizeCommon(raw)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()

	var a rdapAutnum
	if err := dec.Decode(&a); err != nil {
		return nil, &Error{Kind: MalformedResponse, Path: "$", Message: err.Error(), Timestamp: timeNow()}
	}

	entities, err := normalizeEntities(a.Entities, 0)
	if err != nil {
		return nil, err
	}

	start, _ := parseJSONNumberUint32(a.StartAutnum)
	end, _ := parseJSONNumberUint32(a.EndAutnum)

	return &Autnum{
		commonFields: common,
		StartAutnum:  start,
		EndAutnum:    end,
		Country:      a.Country,
		ParentHandle: a.ParentHandle,
		Entities:     entities,
	}, nil
}

func parseJSONNumberUint32(n json.Number) (uint32, error) {
	if n == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(n.String(), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
