package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/dto"
	"github.com/viktorhino/gestor-cupos-sub001/internal/model"
	"github.com/viktorhino/gestor-cupos-sub001/internal/repository"
)

// ── In-memory repository stubs ────────────────────────────────────────────────
// The services run their transactions through runTx, which calls the body with
// a nil *gorm.DB when the repo reports no database. The stubs below therefore
// ignore the tx argument entirely.

type stubPedidoRepo struct {
	pedidos     map[uuid.UUID]*model.Pedido
	items       map[uuid.UUID]*model.PedidoItem
	consecutivo int
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{
		pedidos: make(map[uuid.UUID]*model.Pedido),
		items:   make(map[uuid.UUID]*model.PedidoItem),
	}
}

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PedidoID = p.ID
		r.items[p.Items[i].ID] = &p.Items[i]
	}
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPedidoRepo) List(_ context.Context, _ dto.PedidoFilter) ([]model.Pedido, int64, error) {
	out := make([]model.Pedido, 0, len(r.pedidos))
	for _, p := range r.pedidos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) Update(_ context.Context, p *model.Pedido) error {
	r.pedidos[p.ID] = p
	return nil
}

func (r *stubPedidoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.pedidos, id)
	return nil
}

func (r *stubPedidoRepo) NextConsecutivo(_ context.Context, _ *gorm.DB) (int, error) {
	r.consecutivo++
	return r.consecutivo, nil
}

func (r *stubPedidoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado model.EstadoPedido) error {
	p, ok := r.pedidos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) FindItemByID(_ context.Context, itemID uuid.UUID) (*model.PedidoItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *stubPedidoRepo) CreateItem(_ context.Context, item *model.PedidoItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubPedidoRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	delete(r.items, itemID)
	return nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	return nil, 0, nil
}
func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error { return nil }
func (r *stubClienteRepo) SoftDelete(_ context.Context, _ uuid.UUID) error  { return nil }
func (r *stubClienteRepo) Reactivar(_ context.Context, _ uuid.UUID) error   { return nil }

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

type stubCatalogoRepo struct {
	referencias map[uuid.UUID]*model.ReferenciaTarjeta
	tipos       map[uuid.UUID]*model.TipoVolante
}

func newStubCatalogoRepo() *stubCatalogoRepo {
	return &stubCatalogoRepo{
		referencias: make(map[uuid.UUID]*model.ReferenciaTarjeta),
		tipos:       make(map[uuid.UUID]*model.TipoVolante),
	}
}

func (r *stubCatalogoRepo) CreateReferencia(_ context.Context, ref *model.ReferenciaTarjeta) error {
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	r.referencias[ref.ID] = ref
	return nil
}

func (r *stubCatalogoRepo) FindReferenciaByID(_ context.Context, id uuid.UUID) (*model.ReferenciaTarjeta, error) {
	ref, ok := r.referencias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ref, nil
}

func (r *stubCatalogoRepo) ListReferencias(_ context.Context) ([]model.ReferenciaTarjeta, error) {
	return nil, nil
}
func (r *stubCatalogoRepo) UpdateReferencia(_ context.Context, _ *model.ReferenciaTarjeta) error {
	return nil
}
func (r *stubCatalogoRepo) DesactivarReferencia(_ context.Context, _ uuid.UUID) error { return nil }

func (r *stubCatalogoRepo) CreateTipoVolante(_ context.Context, tv *model.TipoVolante) error {
	if tv.ID == uuid.Nil {
		tv.ID = uuid.New()
	}
	r.tipos[tv.ID] = tv
	return nil
}

func (r *stubCatalogoRepo) FindTipoVolanteByID(_ context.Context, id uuid.UUID) (*model.TipoVolante, error) {
	tv, ok := r.tipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tv, nil
}

func (r *stubCatalogoRepo) ListTiposVolante(_ context.Context) ([]model.TipoVolante, error) {
	return nil, nil
}
func (r *stubCatalogoRepo) UpdateTipoVolante(_ context.Context, _ *model.TipoVolante) error {
	return nil
}
func (r *stubCatalogoRepo) DesactivarTipoVolante(_ context.Context, _ uuid.UUID) error { return nil }

var _ repository.CatalogoRepository = (*stubCatalogoRepo)(nil)

type stubCupoRepo struct {
	cupos map[uuid.UUID]*model.Cupo
	// porItem indexes placements by item so FindAsignacionByItem stays O(1).
	porItem map[uuid.UUID]*model.CupoAsignacion
}

func newStubCupoRepo() *stubCupoRepo {
	return &stubCupoRepo{
		cupos:   make(map[uuid.UUID]*model.Cupo),
		porItem: make(map[uuid.UUID]*model.CupoAsignacion),
	}
}

func (r *stubCupoRepo) Create(_ context.Context, c *model.Cupo) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cupos[c.ID] = c
	return nil
}

func (r *stubCupoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cupo, error) {
	c, ok := r.cupos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCupoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Cupo, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubCupoRepo) ListByRango(_ context.Context, desde, hasta time.Time, cerrado string) ([]model.Cupo, error) {
	out := make([]model.Cupo, 0, len(r.cupos))
	for _, c := range r.cupos {
		if !desde.IsZero() && c.Fecha.Before(desde) {
			continue
		}
		if !hasta.IsZero() && c.Fecha.After(hasta) {
			continue
		}
		if cerrado == "false" && c.Cerrado {
			continue
		}
		if cerrado == "true" && !c.Cerrado {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out, nil
}

func (r *stubCupoRepo) Update(_ context.Context, c *model.Cupo) error {
	r.cupos[c.ID] = c
	return nil
}

func (r *stubCupoRepo) CreateAsignacionTx(_ *gorm.DB, a *model.CupoAsignacion) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	c, ok := r.cupos[a.CupoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Asignaciones = append(c.Asignaciones, *a)
	r.porItem[a.PedidoItemID] = a
	return nil
}

func (r *stubCupoRepo) DeleteAsignacionTx(_ *gorm.DB, cupoID, pedidoItemID uuid.UUID) (int64, error) {
	c, ok := r.cupos[cupoID]
	if !ok {
		return 0, nil
	}
	for i, a := range c.Asignaciones {
		if a.PedidoItemID == pedidoItemID {
			c.Asignaciones = append(c.Asignaciones[:i], c.Asignaciones[i+1:]...)
			delete(r.porItem, pedidoItemID)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *stubCupoRepo) FindAsignacionByItem(_ context.Context, pedidoItemID uuid.UUID) (*model.CupoAsignacion, error) {
	a, ok := r.porItem[pedidoItemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubCupoRepo) DB() *gorm.DB { return nil }

var _ repository.CupoRepository = (*stubCupoRepo)(nil)

type stubMensajeRepo struct {
	mensajes []*model.MensajeWhatsapp
}

func (r *stubMensajeRepo) CreateTx(_ *gorm.DB, m *model.MensajeWhatsapp) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.mensajes = append(r.mensajes, m)
	return nil
}

func (r *stubMensajeRepo) SupersedePendientesTx(_ *gorm.DB, pedidoID uuid.UUID) error {
	for _, m := range r.mensajes {
		if m.PedidoID == pedidoID && m.Pendiente() {
			m.Reemplazado = true
		}
	}
	return nil
}

func (r *stubMensajeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MensajeWhatsapp, error) {
	for _, m := range r.mensajes {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMensajeRepo) FindPendienteByPedido(_ context.Context, pedidoID uuid.UUID) (*model.MensajeWhatsapp, error) {
	for i := len(r.mensajes) - 1; i >= 0; i-- {
		if m := r.mensajes[i]; m.PedidoID == pedidoID && m.Pendiente() {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMensajeRepo) ListByPedido(_ context.Context, pedidoID uuid.UUID) ([]model.MensajeWhatsapp, error) {
	var out []model.MensajeWhatsapp
	for i := len(r.mensajes) - 1; i >= 0; i-- {
		if r.mensajes[i].PedidoID == pedidoID {
			out = append(out, *r.mensajes[i])
		}
	}
	return out, nil
}

func (r *stubMensajeRepo) MarcarCopiado(_ context.Context, id uuid.UUID) error {
	for _, m := range r.mensajes {
		if m.ID == id && !m.Copiado {
			now := time.Now()
			m.Copiado = true
			m.EnviadoAt = &now
		}
	}
	return nil
}

func (r *stubMensajeRepo) DB() *gorm.DB { return nil }

var _ repository.MensajeRepository = (*stubMensajeRepo)(nil)

type stubPlantillaRepo struct {
	plantillas []*model.PlantillaMensaje
}

func (r *stubPlantillaRepo) Create(_ context.Context, p *model.PlantillaMensaje) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Activo = true
	r.plantillas = append(r.plantillas, p)
	return nil
}

func (r *stubPlantillaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PlantillaMensaje, error) {
	for _, p := range r.plantillas {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPlantillaRepo) FindByEstadoTipo(_ context.Context, estado model.EstadoPedido, tipo string) (*model.PlantillaMensaje, error) {
	for _, p := range r.plantillas {
		if p.Estado == estado && p.TipoPedido == tipo && p.Activo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPlantillaRepo) List(_ context.Context) ([]model.PlantillaMensaje, error) {
	return nil, nil
}
func (r *stubPlantillaRepo) Update(_ context.Context, _ *model.PlantillaMensaje) error {
	return nil
}
func (r *stubPlantillaRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }

var _ repository.PlantillaRepository = (*stubPlantillaRepo)(nil)
