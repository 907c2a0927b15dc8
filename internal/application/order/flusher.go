package order

import (
	"context"
	"time"

	"github.com/tu-usuario/calzastore/pkg/logger"
)

// Flusher reintenta en segundo plano los pedidos pendientes del outbox a
// intervalo fijo. Es el único lazo de reintento del sistema: el resto de
// fallos se resuelven con exactamente un paso de respaldo.
type Flusher struct {
	uc       *UseCase
	interval time.Duration
	log      *logger.Logger
}

// NewFlusher construye el flusher.
func NewFlusher(uc *UseCase, interval time.Duration, log *logger.Logger) *Flusher {
	return &Flusher{uc: uc, interval: interval, log: log}
}

// Run bloquea hasta que ctx se cancele, intentando un flush por tick.
// Pensado para correr en una goroutine propia desde main.
func (f *Flusher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := f.uc.FlushOutbox(ctx)
			if err != nil {
				f.log.Warn().Err(err).Msg("pasada de flush del outbox falló")
				continue
			}
			if n > 0 {
				f.log.Info().Int("flushed", n).Msg("pedidos pendientes confirmados en BD")
			}
		}
	}
}
