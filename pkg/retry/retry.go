// Package retry reintenta operaciones con espera constante y un número acotado de intentos.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy intentos totales (>= 1) y espera fija entre intentos.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// Do ejecuta op hasta que tenga éxito, se agoten los intentos, se cancele ctx o
// retryable devuelva false. retryable nil reintenta cualquier error.
// notify (opcional) recibe cada fallo reintentable junto con la espera siguiente.
func Do(
	ctx context.Context,
	p Policy,
	op func() error,
	retryable func(error) bool,
	notify func(err error, next time.Duration),
) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(attempts-1)),
		ctx,
	)
	wrapped := func() error {
		err := op()
		if err != nil && retryable != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(wrapped, b, notify)
}
