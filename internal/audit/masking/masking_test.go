package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret("  "))
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "****3210", MaskSecret("ABCDE3210"))
}

func TestMaskJSON(t *testing.T) {
	out := MaskJSON(map[string]any{
		"name":     "Asha",
		"password": "admin123",
		"nested":   map[string]any{"PAN_NO": "ABCDE1234F", "city": "Pune"},
		"":         "dropped",
	})
	assert.Equal(t, "Asha", out["name"])
	assert.Equal(t, "****n123", out["password"])
	nested := out["nested"].(map[string]any)
	assert.Equal(t, "****234F", nested["PAN_NO"])
	assert.Equal(t, "Pune", nested["city"])
	assert.NotContains(t, out, "")

	assert.Nil(t, MaskJSON(nil))
}
