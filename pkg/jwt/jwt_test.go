package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/LeaGuevara01/node-sub001/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "user-1", "encargado", "agro-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, role, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "encargado", role)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "user-1", "admin", "agro-test", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "user-1", "admin", "agro-test", 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "user-1", "admin", "agro-test", 60)
	assert.Error(t, err)
}
