package appconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFlagToEnvironment(t *testing.T) {
	testCases := []struct {
		flag string
		want Environment
	}{
		{"", Development},
		{"development", Development},
		{"test", Test},
		{"production", Production},
	}

	for _, tc := range testCases {
		t.Run(tc.flag, func(t *testing.T) {
			env, err := EnvFlagToEnvironment(tc.flag)
			require.NoError(t, err)
			assert.Equal(t, tc.want, env)
		})
	}

	_, err := EnvFlagToEnvironment("staging")
	assert.Error(t, err)
}

func TestEnvironmentString(t *testing.T) {
	assert.Equal(t, "development", Development.String())
	assert.Equal(t, "test", Test.String())
	assert.Equal(t, "production", Production.String())
}
