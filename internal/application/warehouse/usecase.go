package warehouse

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

// UseCase motor transaccional de stock multi-tenant. Cada operación resuelve
// el TxRunner del tenant, abre una transacción, bloquea las ubicaciones
// involucradas en una sola lectura (FOR UPDATE, ids ordenados), aplica la
// mutación con chequeo de versión y escribe el asiento de auditoría antes del
// Commit. Ante conflicto de versión la operación falla rápido; reintentar es
// responsabilidad del cliente.
type UseCase struct {
	provider TxRunnerProvider
}

// NewUseCase construye el motor.
func NewUseCase(provider TxRunnerProvider) *UseCase {
	return &UseCase{provider: provider}
}

func (uc *UseCase) runner(ctx context.Context, tenantID int64) (TxRunner, error) {
	return uc.provider.ForTenant(ctx, tenantID)
}

// lockLocations bloquea en una sola lectura todas las ubicaciones indicadas,
// deduplicando y ordenando los ids. Si falta alguna devuelve ErrLocationNotFound.
func lockLocations(ctx context.Context, repo repository.LocationRepository, ids ...int64) error {
	uniq := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
		}
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })
	locked, err := repo.LockByIDs(ctx, uniq)
	if err != nil {
		return err
	}
	if len(locked) != len(uniq) {
		return domain.ErrLocationNotFound
	}
	return nil
}

// writeRegister escribe el asiento de auditoría de la operación dentro de la
// misma transacción. Un código de operación desconocido es un error de
// despliegue (catálogo sin sembrar), no un error de negocio.
func writeRegister(
	ctx context.Context,
	opTypeRepo repository.OperationTypeRepository,
	registerRepo repository.RegisterRepository,
	code string,
	initial, result *entity.Stock,
) error {
	opType, err := opTypeRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if opType == nil {
		return fmt.Errorf("tipo de operación %q no existe en el catálogo", code)
	}
	reg := &entity.Register{
		InitialStock:    entity.EmptySnapshot,
		ResultStock:     entity.EmptySnapshot,
		OperationTypeID: opType.ID,
		Timestamp:       time.Now(),
	}
	if initial != nil {
		raw, err := json.Marshal(initial)
		if err != nil {
			return fmt.Errorf("serializar snapshot inicial: %w", err)
		}
		reg.InitialStock = raw
	}
	if result != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("serializar snapshot final: %w", err)
		}
		reg.ResultStock = raw
	}
	return registerRepo.Create(ctx, reg)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

// CreateLocation crea una ubicación con version 1.
func (uc *UseCase) CreateLocation(ctx context.Context, tenantID int64, in dto.CreateLocationRequest) (*entity.Location, error) {
	if in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	loc := &entity.Location{Code: in.Code, Description: in.Description, Version: 1}
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		_ repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		_ repository.OperationTypeRepository,
		_ repository.RegisterRepository,
	) error {
		return locationRepo.Create(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// GetLocation obtiene una ubicación por id.
func (uc *UseCase) GetLocation(ctx context.Context, tenantID, id int64) (*entity.Location, error) {
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var loc *entity.Location
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		_ repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		_ repository.OperationTypeRepository,
		_ repository.RegisterRepository,
	) error {
		loc, err = locationRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.ErrLocationNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// ListLocations lista ubicaciones con filtros, orden y paginación.
func (uc *UseCase) ListLocations(ctx context.Context, tenantID int64, q repository.ListQuery) ([]*entity.Location, error) {
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var list []*entity.Location
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		_ repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		_ repository.OperationTypeRepository,
		_ repository.RegisterRepository,
	) error {
		list, err = locationRepo.List(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateLocation actualiza una ubicación con chequeo de versión.
func (uc *UseCase) UpdateLocation(ctx context.Context, tenantID int64, in dto.UpdateLocationRequest) (*entity.Location, error) {
	if in.ID == 0 || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	loc := &entity.Location{ID: in.ID, Code: in.Code, Description: in.Description, Version: in.Version}
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		_ repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		_ repository.OperationTypeRepository,
		_ repository.RegisterRepository,
	) error {
		if err := lockLocations(ctx, locationRepo, in.ID); err != nil {
			return err
		}
		return locationRepo.Update(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// DeleteLocation elimina una ubicación con chequeo de versión.
func (uc *UseCase) DeleteLocation(ctx context.Context, tenantID int64, in dto.DeleteLocationRequest) error {
	if in.ID == 0 {
		return domain.ErrInvalidInput
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return err
	}
	return runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		_ repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		_ repository.OperationTypeRepository,
		_ repository.RegisterRepository,
	) error {
		if err := lockLocations(ctx, locationRepo, in.ID); err != nil {
			return err
		}
		return locationRepo.Delete(ctx, in.ID, in.Version)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock: CRUD
// ──────────────────────────────────────────────────────────────────────────────

// CreateStock da de alta un stock y registra el asiento createStock.
func (uc *UseCase) CreateStock(ctx context.Context, tenantID int64, in dto.CreateStockRequest) (*entity.Stock, error) {
	if in.Quantity < 0 || in.LocationID == 0 || in.ProductID == 0 || in.UnitID == 0 {
		return nil, domain.ErrInvalidInput
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	stock := &entity.Stock{
		Quantity:   in.Quantity,
		LocationID: in.LocationID,
		ProductID:  in.ProductID,
		UnitID:     in.UnitID,
		Version:    1,
	}
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		stockRepo repository.StockRepository,
		unitRepo repository.UnitRepository,
		productRepo repository.ProductRepository,
		opTypeRepo repository.OperationTypeRepository,
		registerRepo repository.RegisterRepository,
	) error {
		if err := lockLocations(ctx, locationRepo, in.LocationID); err != nil {
			return err
		}
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		unit, err := unitRepo.GetByID(ctx, in.UnitID)
		if err != nil {
			return err
		}
		if unit == nil {
			return domain.ErrUnitNotFound
		}
		if err := stockRepo.Create(ctx, stock); err != nil {
			return err
		}
		return writeRegister(ctx, opTypeRepo, registerRepo, entity.OpCreateStock, nil, stock)
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}

// GetStock obtiene un stock por id.
func (uc *UseCase) GetStock(ctx context.Context, tenantID, id int64) (*entity.Stock, error) {
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var stock *entity.Stock
	err = runner.Run(ctx, func(
		_ repository.LocationRepository,
		stockRepo repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		_ repository.OperationTypeRepository,
		_ repository.RegisterRepository,
	) error {
		stock, err = stockRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrStockNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stock, nil
}

// ListStock lista stocks con filtros, orden y paginación.
func (uc *UseCase) ListStock(ctx context.Context, tenantID int64, q repository.ListQuery) ([]*entity.Stock, error) {
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var list []*entity.Stock
	err = runner.Run(ctx, func(
		_ repository.LocationRepository,
		stockRepo repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		_ repository.OperationTypeRepository,
		_ repository.RegisterRepository,
	) error {
		list, err = stockRepo.List(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStock actualiza cantidad, ubicación, producto y/o unidad de un stock
// con chequeo de versión. Si cambia la ubicación, bloquea la actual y la nueva
// en una sola lectura. Registra el asiento updateStock.
func (uc *UseCase) UpdateStock(ctx context.Context, tenantID int64, in dto.UpdateStockRequest) (*entity.Stock, error) {
	if in.ID == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var result *entity.Stock
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		stockRepo repository.StockRepository,
		unitRepo repository.UnitRepository,
		productRepo repository.ProductRepository,
		opTypeRepo repository.OperationTypeRepository,
		registerRepo repository.RegisterRepository,
	) error {
		// Lectura previa sin bloqueo para conocer las ubicaciones a bloquear.
		current, err := stockRepo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrStockNotFound
		}
		locIDs := []int64{current.LocationID}
		if in.LocationID != nil {
			locIDs = append(locIDs, *in.LocationID)
		}
		if err := lockLocations(ctx, locationRepo, locIDs...); err != nil {
			return err
		}
		stock, err := stockRepo.GetForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrStockNotFound
		}
		if stock.Version != in.Version {
			return domain.ErrStockConflict
		}
		initial := *stock
		if in.Quantity != nil {
			stock.Quantity = *in.Quantity
		}
		if in.LocationID != nil {
			stock.LocationID = *in.LocationID
		}
		if in.ProductID != nil {
			product, err := productRepo.GetByID(ctx, *in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrProductNotFound
			}
			stock.ProductID = *in.ProductID
		}
		if in.UnitID != nil {
			unit, err := unitRepo.GetByID(ctx, *in.UnitID)
			if err != nil {
				return err
			}
			if unit == nil {
				return domain.ErrUnitNotFound
			}
			stock.UnitID = *in.UnitID
		}
		if err := stockRepo.UpdateVersioned(ctx, stock); err != nil {
			return err
		}
		result = stock
		return writeRegister(ctx, opTypeRepo, registerRepo, entity.OpUpdateStock, &initial, stock)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteStock elimina un stock con chequeo de versión y registra deleteStock.
// Devuelve el snapshot de la fila eliminada.
func (uc *UseCase) DeleteStock(ctx context.Context, tenantID int64, in dto.DeleteStockRequest) (*entity.Stock, error) {
	if in.ID == 0 {
		return nil, domain.ErrInvalidInput
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var removed *entity.Stock
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		stockRepo repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		opTypeRepo repository.OperationTypeRepository,
		registerRepo repository.RegisterRepository,
	) error {
		current, err := stockRepo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrStockNotFound
		}
		if err := lockLocations(ctx, locationRepo, current.LocationID); err != nil {
			return err
		}
		stock, err := stockRepo.GetForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrStockNotFound
		}
		if stock.Version != in.Version {
			return domain.ErrStockConflict
		}
		if err := stockRepo.DeleteVersioned(ctx, stock.ID, stock.Version); err != nil {
			return err
		}
		removed = stock
		return writeRegister(ctx, opTypeRepo, registerRepo, entity.OpDeleteStock, stock, nil)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ListRegisters lista asientos del libro de auditoría.
func (uc *UseCase) ListRegisters(ctx context.Context, tenantID int64, q repository.ListQuery) ([]*entity.Register, error) {
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var list []*entity.Register
	err = runner.Run(ctx, func(
		_ repository.LocationRepository,
		_ repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		_ repository.OperationTypeRepository,
		registerRepo repository.RegisterRepository,
	) error {
		list, err = registerRepo.List(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
