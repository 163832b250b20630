package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/ppe-stock-api/pkg/jwt"
)

const secret = "secreto-de-pruebas"

func TestGenerateParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "admin", "ppe-stock-test", 5)
	require.NoError(t, err)

	userID, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "admin", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "staff", "ppe-stock-test", 5)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "user-1", "admin", "ppe-stock-test", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecretoOUsuario(t *testing.T) {
	_, err := pkgjwt.Generate("", "user-1", "admin", "x", 5)
	assert.Error(t, err)
	_, err = pkgjwt.Generate(secret, "", "admin", "x", 5)
	assert.Error(t, err)
}
