package report

import "time"

// SetClock reemplaza el reloj del planificador en tests.
func SetClock(s *Scheduler, now func() time.Time) {
	s.now = now
}
