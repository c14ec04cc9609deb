package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	encoded, err := Hash("admin123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))
	assert.True(t, Verify("admin123", encoded))
	assert.False(t, Verify("admin124", encoded))
	assert.False(t, NeedsRehash(encoded))

	other, err := Hash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, other)

	assert.False(t, Verify("admin123", "plain"))
	assert.False(t, Verify("admin123", "$argon2id$v=19$m=x,t=1,p=4$abc$def"))
}

func TestImportedBcryptHash(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("staff123"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, Verify("staff123", string(legacy)))
	assert.False(t, Verify("staff124", string(legacy)))
	assert.True(t, NeedsRehash(string(legacy)))
}

func TestNeedsRehashOnWeakerParams(t *testing.T) {
	encoded, err := Hash("admin123")
	require.NoError(t, err)
	weaker := strings.Replace(encoded, "m=65536", "m=32768", 1)
	assert.True(t, NeedsRehash(weaker))
	assert.True(t, NeedsRehash("garbage"))
}
