package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompareHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "qwerty123"},
		{name: "password with symbols", password: "p@$$w0rd!#"},
		{name: "long password", password: "a-very-long-password-with-many-characters-inside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)

			assert.NoError(t, CompareHash(hash, tt.password))
			assert.Error(t, CompareHash(hash, tt.password+"x"))
		})
	}
}
