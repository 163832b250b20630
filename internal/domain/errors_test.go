package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ppe-stock-api/internal/domain"
)

func TestKind_ErroresEnvueltos(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: critical >= min", domain.ErrValidation), "VALIDATION"},
		{fmt.Errorf("%w: station s1", domain.ErrNotFound), "NOT_FOUND"},
		{fmt.Errorf("%w: faltan 3", domain.ErrInsufficientStock), "INSUFFICIENT_STOCK"},
		{fmt.Errorf("%w: alerta resuelta", domain.ErrInvalidState), "INVALID_STATE"},
		{fmt.Errorf("begin: %w", domain.ErrDatabaseNotReady), "DATABASE_NOT_READY"},
		{errors.New("conexión perdida"), "INTERNAL"},
		{nil, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, domain.Kind(tc.err))
	}
}
