package kyc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	assert.True(t, ValidPhone("9876543210"))
	assert.False(t, ValidPhone("98765"))
	assert.True(t, ValidAadhar("123412341234"))
	assert.False(t, ValidAadhar("1234-1234-1234"))
	assert.True(t, ValidPAN("ABCDE1234F"))
	assert.False(t, ValidPAN("abcde1234f"))
	assert.True(t, ValidEmail("shop.owner@ledger-system.com"))
	assert.False(t, ValidEmail("not-an-email"))
}

func TestNormalizeRelation(t *testing.T) {
	r, ok := NormalizeRelation("")
	assert.True(t, ok)
	assert.Equal(t, "S/O", r)

	r, ok = NormalizeRelation("w/o")
	assert.True(t, ok)
	assert.Equal(t, "W/O", r)

	_, ok = NormalizeRelation("F/O")
	assert.False(t, ok)
}

func TestContactField(t *testing.T) {
	c := Contact{Phone: " 9876543210 ", Email: "A@B.COM", PANNo: "abcde1234f"}.Normalize()
	assert.Equal(t, "", c.Field())
	assert.Equal(t, "a@b.com", c.Email)
	assert.Equal(t, "ABCDE1234F", c.PANNo)

	assert.Equal(t, "phone", Contact{}.Field())
	assert.Equal(t, "mobile", Contact{Phone: "9876543210", Mobile: "1"}.Field())
	assert.Equal(t, "aadhar_no", Contact{Phone: "9876543210", AadharNo: "12"}.Field())
}
