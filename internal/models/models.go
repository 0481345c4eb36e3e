package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Timestamp is an optional point in time. Empty strings and null decode to
// the zero value.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	return json.Unmarshal(data, &t.Time)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

// DispatchRequest is an official document dispatch order. A set
// DateSubmitted marks it immutable.
type DispatchRequest struct {
	Identifier            string      `json:"identifier"`
	Name                  string      `json:"name,omitempty"`
	DateCreated           time.Time   `json:"dateCreated"`
	DateSubmitted         Timestamp   `json:"dateSubmitted"`
	SenderGivenName       string      `json:"senderGivenName,omitempty"`
	SenderFamilyName      string      `json:"senderFamilyName,omitempty"`
	SenderAddressCountry  string      `json:"senderAddressCountry,omitempty"`
	SenderPostalCode      string      `json:"senderPostalCode,omitempty"`
	SenderAddressLocality string      `json:"senderAddressLocality,omitempty"`
	SenderStreetAddress   string      `json:"senderStreetAddress,omitempty"`
	SenderBuildingNumber  string      `json:"senderBuildingNumber,omitempty"`
	GroupID               string      `json:"groupId,omitempty"`
	Files                 []File      `json:"files"`
	Recipients            []Recipient `json:"recipients"`
}

func (r DispatchRequest) IsSubmitted() bool {
	return !r.DateSubmitted.IsZero()
}

// CanSubmit reports whether the request carries at least one file and one
// recipient.
func (r DispatchRequest) CanSubmit() bool {
	return len(r.Files) > 0 && len(r.Recipients) > 0
}

func (r DispatchRequest) SenderName() string {
	return strings.TrimSpace(r.SenderGivenName + " " + r.SenderFamilyName)
}

func (r DispatchRequest) SenderAddress() Address {
	return Address{
		AddressCountry:  r.SenderAddressCountry,
		PostalCode:      r.SenderPostalCode,
		AddressLocality: r.SenderAddressLocality,
		StreetAddress:   r.SenderStreetAddress,
		BuildingNumber:  r.SenderBuildingNumber,
	}
}

func (r DispatchRequest) Recipient(id string) (Recipient, bool) {
	for _, rec := range r.Recipients {
		if rec.Identifier == id {
			return rec, true
		}
	}
	return Recipient{}, false
}

func (r DispatchRequest) File(id string) (File, bool) {
	for _, f := range r.Files {
		if f.Identifier == id {
			return f, true
		}
	}
	return File{}, false
}

type File struct {
	Identifier  string    `json:"identifier"`
	Name        string    `json:"name"`
	ContentSize int64     `json:"contentSize"`
	FileFormat  string    `json:"fileFormat"`
	DateCreated time.Time `json:"dateCreated"`
}

type Recipient struct {
	Identifier        string `json:"identifier"`
	GivenName         string `json:"givenName"`
	FamilyName        string `json:"familyName"`
	AddressCountry    string `json:"addressCountry,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	AddressLocality   string `json:"addressLocality,omitempty"`
	StreetAddress     string `json:"streetAddress,omitempty"`
	BuildingNumber    string `json:"buildingNumber,omitempty"`
	BirthDate         string `json:"birthDate,omitempty"`
	StatusDescription string `json:"statusDescription,omitempty"` // only set by the detail endpoint
}

func (r Recipient) FullName() string {
	return strings.TrimSpace(r.GivenName + " " + r.FamilyName)
}

func (r Recipient) Address() Address {
	return Address{
		AddressCountry:  r.AddressCountry,
		PostalCode:      r.PostalCode,
		AddressLocality: r.AddressLocality,
		StreetAddress:   r.StreetAddress,
		BuildingNumber:  r.BuildingNumber,
	}
}

type Address struct {
	AddressCountry  string
	PostalCode      string
	AddressLocality string
	StreetAddress   string
	BuildingNumber  string
}

func (a Address) String() string {
	street := strings.TrimSpace(a.StreetAddress + " " + a.BuildingNumber)
	city := strings.TrimSpace(a.PostalCode + " " + a.AddressLocality)
	parts := make([]string, 0, 3)
	for _, p := range []string{street, city, a.AddressCountry} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Group is the organizational scope requests are listed under.
type Group struct {
	Identifier   string   `json:"identifier"`
	Name         string   `json:"name"`
	AccessRights []string `json:"accessRights"`
}

var (
	readRights  = []string{"r", "read", "rw", "w", "write"}
	writeRights = []string{"rw", "w", "write"}
)

// MayRead reports whether an access right grants reading. Write access
// implies read access.
func (g Group) MayRead() bool {
	return g.hasAny(readRights)
}

func (g Group) MayWrite() bool {
	return g.hasAny(writeRights)
}

func (g Group) hasAny(tokens []string) bool {
	for _, r := range g.AccessRights {
		if slices.Contains(tokens, strings.ToLower(strings.TrimSpace(r))) {
			return true
		}
	}
	return false
}

// Collection is a hydra list response.
type Collection[T any] struct {
	TotalItems any `json:"hydra:totalItems"`
	Members    []T `json:"hydra:member"`
}

// Items returns at most hydra:totalItems members in server order. A missing
// or unparsable total yields no items.
func (c Collection[T]) Items() []T {
	n := parseTotal(c.TotalItems)
	if n > len(c.Members) {
		n = len(c.Members)
	}
	items := make([]T, n)
	copy(items, c.Members[:n])
	return items
}

// Total is hydra:totalItems, 0 when missing or unparsable.
func (c Collection[T]) Total() int {
	return parseTotal(c.TotalItems)
}

func parseTotal(v any) int {
	var n int
	switch t := v.(type) {
	case float64:
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

// RequestPage is one list answer. Total is the server's count, which may
// exceed len(Requests) when the list is paged.
type RequestPage struct {
	Total    int
	Requests []DispatchRequest
}

type ListFilter struct {
	GroupID string `validate:"required"`
	Page    int    `validate:"min=0"`
	PerPage int    `validate:"min=0,max=10000"`
}
