package warehouse_test

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nuplus/warehouses-api/internal/application/warehouse"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// Reproducen la semántica de los repositorios Postgres que importa al motor:
// chequeo de versión en UPDATE/DELETE (incremento al éxito) y candidato de
// fusión por (producto, unidad) con el menor id. No hay rollback: los tests de
// atomicidad se apoyan en que el asiento se escribe al final de la operación.
// ──────────────────────────────────────────────────────────────────────────────

type fakeLocationRepo struct {
	byID   map[int64]*entity.Location
	nextID int64

	// lockCalls guarda los argumentos de cada LockByIDs para verificar la
	// disciplina de bloqueo (una sola llamada, ids ordenados).
	lockCalls [][]int64
}

func newFakeLocationRepo(locs ...*entity.Location) *fakeLocationRepo {
	r := &fakeLocationRepo{byID: make(map[int64]*entity.Location), nextID: 1}
	for _, l := range locs {
		cp := *l
		r.byID[cp.ID] = &cp
		if cp.ID >= r.nextID {
			r.nextID = cp.ID + 1
		}
	}
	return r
}

func (r *fakeLocationRepo) Create(_ context.Context, loc *entity.Location) error {
	loc.ID = r.nextID
	r.nextID++
	cp := *loc
	r.byID[cp.ID] = &cp
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id int64) (*entity.Location, error) {
	if l, ok := r.byID[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeLocationRepo) LockByIDs(_ context.Context, ids []int64) ([]*entity.Location, error) {
	call := append([]int64(nil), ids...)
	r.lockCalls = append(r.lockCalls, call)
	var out []*entity.Location
	for _, id := range ids {
		if l, ok := r.byID[id]; ok {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) Update(_ context.Context, loc *entity.Location) error {
	cur, ok := r.byID[loc.ID]
	if !ok || cur.Version != loc.Version {
		return domain.ErrStockConflict
	}
	cp := *loc
	cp.Version++
	r.byID[cp.ID] = &cp
	loc.Version++
	return nil
}

func (r *fakeLocationRepo) Delete(_ context.Context, id, version int64) error {
	cur, ok := r.byID[id]
	if !ok || cur.Version != version {
		return domain.ErrStockConflict
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeLocationRepo) List(_ context.Context, _ repository.ListQuery) ([]*entity.Location, error) {
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*entity.Location, 0, len(ids))
	for _, id := range ids {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

type fakeStockRepo struct {
	byID   map[int64]*entity.Stock
	nextID int64
}

func newFakeStockRepo(stocks ...*entity.Stock) *fakeStockRepo {
	r := &fakeStockRepo{byID: make(map[int64]*entity.Stock), nextID: 1}
	for _, s := range stocks {
		cp := *s
		r.byID[cp.ID] = &cp
		if cp.ID >= r.nextID {
			r.nextID = cp.ID + 1
		}
	}
	return r
}

func (r *fakeStockRepo) Create(_ context.Context, s *entity.Stock) error {
	s.ID = r.nextID
	r.nextID++
	cp := *s
	r.byID[cp.ID] = &cp
	return nil
}

func (r *fakeStockRepo) GetByID(_ context.Context, id int64) (*entity.Stock, error) {
	if s, ok := r.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeStockRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Stock, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeStockRepo) FindByProductAndUnitForUpdate(_ context.Context, productID, unitID int64) (*entity.Stock, error) {
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s := r.byID[id]
		if s.ProductID == productID && s.UnitID == unitID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeStockRepo) UpdateVersioned(_ context.Context, s *entity.Stock) error {
	cur, ok := r.byID[s.ID]
	if !ok || cur.Version != s.Version {
		return domain.ErrStockConflict
	}
	cp := *s
	cp.Version++
	r.byID[cp.ID] = &cp
	s.Version++
	return nil
}

func (r *fakeStockRepo) DeleteVersioned(_ context.Context, id, version int64) error {
	cur, ok := r.byID[id]
	if !ok || cur.Version != version {
		return domain.ErrStockConflict
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeStockRepo) SumQuantityByLocation(_ context.Context, locationID int64) (decimal.Decimal, error) {
	var total int64
	for _, s := range r.byID {
		if s.LocationID == locationID {
			total += s.Quantity
		}
	}
	return decimal.NewFromInt(total), nil
}

func (r *fakeStockRepo) List(_ context.Context, _ repository.ListQuery) ([]*entity.Stock, error) {
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*entity.Stock, 0, len(ids))
	for _, id := range ids {
		cp := *r.byID[id]
		out = append(out, &cp)
	}
	return out, nil
}

type fakeUnitRepo struct {
	byID map[int64]*entity.Unit
}

func newFakeUnitRepo(units ...*entity.Unit) *fakeUnitRepo {
	r := &fakeUnitRepo{byID: make(map[int64]*entity.Unit)}
	for _, u := range units {
		cp := *u
		r.byID[cp.ID] = &cp
	}
	return r
}

func (r *fakeUnitRepo) GetByID(_ context.Context, id int64) (*entity.Unit, error) {
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

type fakeProductRepo struct {
	byID map[int64]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{byID: make(map[int64]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.byID[cp.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// fakeOpTypeRepo catálogo sembrado con los nueve códigos de operación.
type fakeOpTypeRepo struct {
	byCode map[string]*entity.OperationType
}

func newFakeOpTypeRepo() *fakeOpTypeRepo {
	codes := []string{
		entity.OpCreateStock, entity.OpDeleteStock, entity.OpUpdateStock,
		entity.OpFusionStock, entity.OpDivideStock, entity.OpGroupStock,
		entity.OpUngroupStock, entity.OpChangeLocationStock, entity.OpCountLocationStock,
	}
	r := &fakeOpTypeRepo{byCode: make(map[string]*entity.OperationType)}
	for i, code := range codes {
		r.byCode[code] = &entity.OperationType{ID: int64(i + 1), Code: code, Name: code}
	}
	return r
}

func (r *fakeOpTypeRepo) GetByCode(_ context.Context, code string) (*entity.OperationType, error) {
	if op, ok := r.byCode[code]; ok {
		cp := *op
		return &cp, nil
	}
	return nil, nil
}

// opCode devuelve el código del catálogo para un id de tipo de operación.
func (r *fakeOpTypeRepo) opCode(id int64) string {
	for code, op := range r.byCode {
		if op.ID == id {
			return code
		}
	}
	return ""
}

type fakeRegisterRepo struct {
	entries []*entity.Register
}

func (r *fakeRegisterRepo) Create(_ context.Context, reg *entity.Register) error {
	cp := *reg
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeRegisterRepo) List(_ context.Context, _ repository.ListQuery) ([]*entity.Register, error) {
	return append([]*entity.Register(nil), r.entries...), nil
}

// ── Runner y provider ─────────────────────────────────────────────────────────

// fixture agrupa los fakes de un tenant y expone el UseCase ya cableado.
type fixture struct {
	locations *fakeLocationRepo
	stocks    *fakeStockRepo
	units     *fakeUnitRepo
	products  *fakeProductRepo
	opTypes   *fakeOpTypeRepo
	registers *fakeRegisterRepo
	uc        *warehouse.UseCase
}

func (f *fixture) Run(_ context.Context, fn func(
	locationRepo repository.LocationRepository,
	stockRepo repository.StockRepository,
	unitRepo repository.UnitRepository,
	productRepo repository.ProductRepository,
	opTypeRepo repository.OperationTypeRepository,
	registerRepo repository.RegisterRepository,
) error) error {
	return fn(f.locations, f.stocks, f.units, f.products, f.opTypes, f.registers)
}

func (f *fixture) ForTenant(_ context.Context, _ int64) (warehouse.TxRunner, error) {
	return f, nil
}

var (
	_ warehouse.TxRunner         = (*fixture)(nil)
	_ warehouse.TxRunnerProvider = (*fixture)(nil)
)

// newFixture arma un tenant de prueba: dos ubicaciones, dos unidades
// (pieza base 1, caja base 10) y un producto.
func newFixture() *fixture {
	f := &fixture{
		locations: newFakeLocationRepo(
			&entity.Location{ID: 1, Code: "LOC-1", Version: 1},
			&entity.Location{ID: 2, Code: "LOC-2", Version: 1},
		),
		stocks: newFakeStockRepo(),
		units: newFakeUnitRepo(
			&entity.Unit{ID: 1, Code: "UNIT1", BaseUnit: 1},
			&entity.Unit{ID: 2, Code: "UNIT10", BaseUnit: 10},
		),
		products:  newFakeProductRepo(&entity.Product{ID: 1, Code: "PROD-1"}),
		opTypes:   newFakeOpTypeRepo(),
		registers: &fakeRegisterRepo{},
	}
	f.uc = warehouse.NewUseCase(f)
	return f
}
