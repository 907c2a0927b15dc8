package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/calzastore/internal/application/dto"
	"github.com/tu-usuario/calzastore/internal/domain"
	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
	"github.com/tu-usuario/calzastore/pkg/logger"
)

// UseCase captura y lista pedidos. La escritura sigue el patrón outbox:
// primero el almacén local (syncState=pending), después el insert en BD;
// si la BD falla el pedido queda pendiente y el flusher lo reintenta.
// Un fallo de persistencia en BD no es un fallo duro para el comprador.
type UseCase struct {
	repo   repository.OrderRepository
	outbox *Outbox
	log    *logger.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.OrderRepository, outbox *Outbox, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, outbox: outbox, log: log, now: time.Now}
}

// Create toma la foto del carrito y la convierte en pedido.
// El total se recalcula en el servidor; si el cliente mandó un total distinto
// se rechaza con domain.ErrTotalMismatch (invariante: total == Σ price*qty).
func (uc *UseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 || in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 || it.Shoe.ID == "" {
			return nil, domain.ErrInvalidInput
		}
	}

	now := uc.now()
	o := &entity.Order{
		ID:             newOrderID(now),
		OrderDate:      now,
		Items:          in.Items,
		Status:         entity.OrderStatusProcessing,
		ShippingInfo:   in.ShippingInfo,
		PaymentMethod:  in.PaymentMethod,
		TrackingNumber: newTrackingNumber(),
		SyncState:      entity.SyncPending,
		CreatedAt:      now,
	}
	o.Total = o.ComputeTotal()
	if in.Total != nil && *in.Total != o.Total {
		return nil, domain.ErrTotalMismatch
	}

	// Escritura local primero: pase lo que pase con la BD, el pedido existe.
	if err := uc.outbox.Put(o); err != nil {
		// Sin outbox ni BD no hay dónde dejar el pedido; con outbox caído
		// el insert en BD pasa a ser obligatorio.
		if dbErr := uc.repo.Create(ctx, uc.confirmed(o)); dbErr != nil {
			return nil, fmt.Errorf("pedido sin destino durable: %w", dbErr)
		}
		uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("outbox no disponible, pedido confirmado solo en BD")
		return dto.ToOrderResponse(o), nil
	}

	if err := uc.repo.Create(ctx, uc.confirmed(o)); err != nil {
		// Modo degradado: el pedido queda pendiente en el outbox y el
		// flusher lo reintentará. No se propaga como fallo al comprador.
		o.SyncState = entity.SyncPending
		uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("insert de pedido falló, queda pendiente en outbox")
		return dto.ToOrderResponse(o), nil
	}

	if err := uc.outbox.Remove(o.ID); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("no se pudo retirar el pedido confirmado del outbox")
	}
	return dto.ToOrderResponse(o), nil
}

// confirmed marca el pedido como confirmado y lo devuelve (mutación in situ;
// el estado se revierte a pending si el insert falla).
func (uc *UseCase) confirmed(o *entity.Order) *entity.Order {
	o.SyncState = entity.SyncConfirmed
	return o
}

// List devuelve todos los pedidos, más recientes primero. Las entradas aún
// pendientes del outbox se mezclan encima de lo que haya en BD, de modo que
// un pedido creado en modo degradado aparece de inmediato. Si la BD no
// responde se sirve solo el outbox (lista local, puede estar incompleta).
func (uc *UseCase) List(ctx context.Context) ([]*dto.OrderResponse, error) {
	pending, obErr := uc.outbox.Pending()
	if obErr != nil {
		uc.log.Warn().Err(obErr).Msg("outbox ilegible al listar pedidos")
	}

	stored, dbErr := uc.repo.List(ctx)
	if dbErr != nil {
		if obErr != nil {
			return nil, fmt.Errorf("listar pedidos: %w", dbErr)
		}
		uc.log.Warn().Err(dbErr).Msg("BD no disponible, sirviendo solo pedidos locales")
		stored = nil
	}

	seen := make(map[string]bool, len(stored))
	all := make([]*entity.Order, 0, len(stored)+len(pending))
	for _, o := range stored {
		seen[o.ID] = true
		all = append(all, o)
	}
	for _, o := range pending {
		if !seen[o.ID] {
			all = append(all, o)
		}
	}
	if dbErr != nil && len(all) == 0 {
		return nil, fmt.Errorf("listar pedidos: %w", dbErr)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OrderDate.After(all[j].OrderDate) })

	out := make([]*dto.OrderResponse, 0, len(all))
	for _, o := range all {
		out = append(out, dto.ToOrderResponse(o))
	}
	return out, nil
}

// FlushOutbox reintenta el insert de cada pedido pendiente. Devuelve cuántos
// quedaron confirmados en esta pasada. Un id que ya existe en BD cuenta como
// confirmado (el insert llegó pero el retiro del outbox se perdió).
func (uc *UseCase) FlushOutbox(ctx context.Context) (int, error) {
	pending, err := uc.outbox.Pending()
	if err != nil {
		return 0, err
	}
	flushed := 0
	for _, o := range pending {
		err := uc.repo.Create(ctx, uc.confirmed(o))
		if err != nil && !errors.Is(err, domain.ErrDuplicate) {
			o.SyncState = entity.SyncPending
			uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("reintento de pedido pendiente falló")
			continue
		}
		if err := uc.outbox.Remove(o.ID); err != nil {
			uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("no se pudo retirar del outbox tras confirmar")
			continue
		}
		flushed++
	}
	return flushed, nil
}

// newOrderID formato del origen: prefijo fijo más la cola del reloj en
// milisegundos. Sin garantía de unicidad más allá de baja probabilidad de
// colisión.
func newOrderID(t time.Time) string {
	ms := fmt.Sprintf("%d", t.UnixMilli())
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "ORD-" + ms
}

// Alfabeto base36 en mayúsculas para el sufijo de seguimiento.
const trackingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newTrackingNumber prefijo fijo más ocho caracteres base36 aleatorios.
func newTrackingNumber() string {
	id := uuid.New()
	suffix := make([]byte, 8)
	for i := range suffix {
		suffix[i] = trackingAlphabet[int(id[i])%len(trackingAlphabet)]
	}
	return "TRK" + string(suffix)
}
