package reference

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestDocumentNormalizeAndValidate(t *testing.T) {
	d := Document{}.Normalize()
	assert.Equal(t, DocumentGeneral, d.Kind)
	assert.NoError(t, d.Validate())

	id := snowflake.ID(7)
	d = Document{Kind: "General", EntityID: &id}.Normalize()
	assert.Nil(t, d.EntityID)

	assert.ErrorIs(t, Document{Kind: DocumentBill}.Validate(), ErrMissingDocumentID)
	assert.ErrorIs(t, Document{Kind: "invoice"}.Validate(), ErrInvalidDocumentKind)
	assert.NoError(t, NewDocument(DocumentLoan, 9, "LG-1001").Validate())
}

func TestPartyValidate(t *testing.T) {
	p := Party{Name: " Walk-in "}.Normalize()
	assert.Equal(t, PartyNone, p.Kind)
	assert.Equal(t, "Walk-in", p.Name)
	assert.NoError(t, p.Validate())
	assert.Equal(t, snowflake.ID(0), p.ID())

	assert.ErrorIs(t, Party{Kind: PartyCustomer}.Validate(), ErrMissingPartyID)
	assert.ErrorIs(t, Party{Kind: "supplier"}.Validate(), ErrInvalidPartyKind)

	p = NewParty(PartyJobWorker, 12, "Ravi")
	assert.NoError(t, p.Validate())
	assert.Equal(t, snowflake.ID(12), p.ID())
}
