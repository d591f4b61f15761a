package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khedut-saathi/khedut/internal/exchange"
)

func TestValidBackendURL(t *testing.T) {
	assert.NoError(t, validBackendURL("http://localhost:8080"))
	assert.NoError(t, validBackendURL("https://api.khedut.example/v1"))
	assert.Error(t, validBackendURL("localhost:8080"))
	assert.Error(t, validBackendURL("ftp://host"))
	assert.Error(t, validBackendURL("http://"))
}

func TestValidTimeout(t *testing.T) {
	assert.NoError(t, validTimeout(""))
	assert.NoError(t, validTimeout("45s"))
	assert.Error(t, validTimeout("0s"))
	assert.Error(t, validTimeout("soon"))
}

func TestPolicyChoicesParse(t *testing.T) {
	for _, p := range policies {
		_, err := exchange.ParsePolicy(p)
		assert.NoError(t, err, p)
	}
}
