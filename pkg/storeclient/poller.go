package storeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/calzastore/internal/application/dto"
	"github.com/tu-usuario/calzastore/pkg/logger"
)

// Poller es el cliente de polling de la tienda: un fetch inmediato al
// arrancar y después uno por tick a intervalo fijo, hasta Stop. Cada
// respuesta reemplaza la foto en memoria completa: sin diffing, sin merge.
//
// No se guarda contra peticiones en vuelo solapadas: si un tick dispara
// antes de que resuelva el anterior, ambas respuestas compiten y gana la
// que resuelva última. Es aceptable solo porque la lectura es idempotente.
type Poller struct {
	url        string
	interval   time.Duration
	httpClient *http.Client
	log        *logger.Logger

	mu       sync.RWMutex
	shoes    []dto.ShoeResponse
	source   string
	lastErr  error
	lastTick time.Time

	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewPoller construye el poller contra baseURL (consulta <baseURL>/api/shoes).
func NewPoller(baseURL string, interval time.Duration, log *logger.Logger) *Poller {
	return &Poller{
		url:        strings.TrimRight(baseURL, "/") + "/api/shoes",
		interval:   interval,
		httpClient: &http.Client{Timeout: interval},
		log:        log,
		done:       make(chan struct{}),
	}
}

// Start lanza el lazo de polling en su propia goroutine: fetch inmediato y
// después uno por tick. Llamar Stop (o cancelar ctx) para terminarlo.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	go func() {
		defer close(p.done)
		p.fetch(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Cada tick en su goroutine: las respuestas lentas compiten
				// con las siguientes y gana la última en resolver.
				go p.fetch(ctx)
			}
		}
	}()
}

// Stop detiene el lazo y espera a que la goroutine principal termine.
// Llamar Stop sin haber arrancado no bloquea: sin Start no hay lazo que
// esperar.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		if p.cancel == nil {
			return
		}
		p.cancel()
		<-p.done
	})
}

// Snapshot devuelve una copia de la última foto y su fuente ("live"|"cache").
func (p *Poller) Snapshot() ([]dto.ShoeResponse, string) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]dto.ShoeResponse, len(p.shoes))
	copy(out, p.shoes)
	return out, p.source
}

// LastErr devuelve el error del último fetch (nil si fue bien). La foto
// previa se conserva mientras tanto.
func (p *Poller) LastErr() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}

// Filter devuelve las entradas de la foto cuyo type, brand o model contiene
// query (sin distinguir mayúsculas). Query vacía devuelve todo.
func (p *Poller) Filter(query string) []dto.ShoeResponse {
	shoes, _ := p.Snapshot()
	if query == "" {
		return shoes
	}
	q := strings.ToLower(query)
	out := shoes[:0]
	for _, s := range shoes {
		if strings.Contains(strings.ToLower(s.Type), q) ||
			strings.Contains(strings.ToLower(s.Brand), q) ||
			strings.Contains(strings.ToLower(s.Model), q) {
			out = append(out, s)
		}
	}
	return out
}

// fetch hace un GET y, si va bien, reemplaza la foto completa.
func (p *Poller) fetch(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.record(nil, "", err)
		return
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.record(nil, "", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.record(nil, "", fmt.Errorf("inventario respondió %d", resp.StatusCode))
		return
	}
	var shoes []dto.ShoeResponse
	if err := json.NewDecoder(resp.Body).Decode(&shoes); err != nil {
		p.record(nil, "", fmt.Errorf("respuesta de inventario malformada: %w", err))
		return
	}
	p.record(shoes, resp.Header.Get("X-Inventory-Source"), nil)
}

// record aplica el resultado de un fetch. En error se conserva la foto previa.
func (p *Poller) record(shoes []dto.ShoeResponse, source string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastTick = time.Now()
	p.lastErr = err
	if err != nil {
		if p.log != nil {
			p.log.Warn().Err(err).Msg("tick de polling falló, foto previa conservada")
		}
		return
	}
	p.shoes = shoes
	p.source = source
}
