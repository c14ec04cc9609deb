// Package reference holds the closed sets of things a ledger row may point
// at: a source document and a counterparty.
package reference

import (
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidDocumentKind = errors.New("invalid_reference_kind")
	ErrMissingDocumentID   = errors.New("missing_reference_id")
	ErrInvalidPartyKind    = errors.New("invalid_party_kind")
	ErrMissingPartyID      = errors.New("missing_party_id")
)

type DocumentKind string

const (
	DocumentGeneral DocumentKind = "general"
	DocumentBill    DocumentKind = "bill"
	DocumentOrder   DocumentKind = "order"
	DocumentLoan    DocumentKind = "loan"
	DocumentPayment DocumentKind = "payment"
)

// Document points at the business document that caused a ledger row.
// General entries carry no id.
type Document struct {
	Kind     DocumentKind  `json:"kind" gorm:"type:varchar(16);not null;default:general"`
	EntityID *snowflake.ID `json:"id,omitempty"`
	Number   string        `json:"number,omitempty" gorm:"type:varchar(32)"`
}

func General() Document {
	return Document{Kind: DocumentGeneral}
}

func NewDocument(kind DocumentKind, id snowflake.ID, number string) Document {
	return Document{Kind: kind, EntityID: &id, Number: number}
}

// Normalize fills the default kind and drops the id from general entries.
func (d Document) Normalize() Document {
	d.Kind = DocumentKind(strings.ToLower(strings.TrimSpace(string(d.Kind))))
	if d.Kind == "" {
		d.Kind = DocumentGeneral
	}
	if d.Kind == DocumentGeneral {
		d.EntityID = nil
	}
	d.Number = strings.TrimSpace(d.Number)
	return d
}

func (d Document) Validate() error {
	switch d.Kind {
	case DocumentGeneral:
		return nil
	case DocumentBill, DocumentOrder, DocumentLoan, DocumentPayment:
		if d.EntityID == nil || *d.EntityID == 0 {
			return ErrMissingDocumentID
		}
		return nil
	default:
		return ErrInvalidDocumentKind
	}
}

type PartyKind string

const (
	PartyNone      PartyKind = "none"
	PartyCustomer  PartyKind = "customer"
	PartyJobWorker PartyKind = "jobworker"
	PartyAgent     PartyKind = "agent"
)

// Party is the counterparty of a ledger row. A none party is a walk-in
// identified by name only.
type Party struct {
	Kind     PartyKind     `json:"kind" gorm:"type:varchar(16);not null;default:none"`
	EntityID *snowflake.ID `json:"id,omitempty" gorm:"index"`
	Name     string        `json:"name,omitempty" gorm:"type:varchar(255)"`
}

func NewParty(kind PartyKind, id snowflake.ID, name string) Party {
	return Party{Kind: kind, EntityID: &id, Name: name}
}

func (p Party) Normalize() Party {
	p.Kind = PartyKind(strings.ToLower(strings.TrimSpace(string(p.Kind))))
	if p.Kind == "" {
		p.Kind = PartyNone
	}
	if p.Kind == PartyNone {
		p.EntityID = nil
	}
	p.Name = strings.TrimSpace(p.Name)
	return p
}

func (p Party) Validate() error {
	switch p.Kind {
	case PartyNone:
		return nil
	case PartyCustomer, PartyJobWorker, PartyAgent:
		if p.EntityID == nil || *p.EntityID == 0 {
			return ErrMissingPartyID
		}
		return nil
	default:
		return ErrInvalidPartyKind
	}
}

// ID returns the party id, or zero for a none party.
func (p Party) ID() snowflake.ID {
	if p.EntityID == nil {
		return 0
	}
	return *p.EntityID
}
