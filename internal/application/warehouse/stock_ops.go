package warehouse

import (
	"context"

	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

// FusionStock fusiona el stock origen dentro del destino. Ambos deben
// compartir ubicación, producto y unidad; si no, la fusión se rechaza. El
// origen se elimina y el destino absorbe su cantidad. Asiento fusionStock con
// el destino antes y después.
func (uc *UseCase) FusionStock(ctx context.Context, tenantID int64, in dto.FusionStockRequest) (*entity.Stock, error) {
	if in.StockOriginID == 0 || in.StockDestinationID == 0 || in.StockOriginID == in.StockDestinationID {
		return nil, domain.ErrInvalidInput
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var merged *entity.Stock
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		stockRepo repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		opTypeRepo repository.OperationTypeRepository,
		registerRepo repository.RegisterRepository,
	) error {
		origin, err := stockRepo.GetByID(ctx, in.StockOriginID)
		if err != nil {
			return err
		}
		dest, err := stockRepo.GetByID(ctx, in.StockDestinationID)
		if err != nil {
			return err
		}
		if origin == nil || dest == nil {
			return domain.ErrStockNotFound
		}
		if origin.LocationID != dest.LocationID || origin.ProductID != dest.ProductID || origin.UnitID != dest.UnitID {
			return domain.ErrIncompatibleUnits
		}
		if err := lockLocations(ctx, locationRepo, dest.LocationID); err != nil {
			return err
		}
		// Relectura con bloqueo en orden ascendente de id de stock.
		first, second := in.StockOriginID, in.StockDestinationID
		if second < first {
			first, second = second, first
		}
		a, err := stockRepo.GetForUpdate(ctx, first)
		if err != nil {
			return err
		}
		b, err := stockRepo.GetForUpdate(ctx, second)
		if err != nil {
			return err
		}
		if a == nil || b == nil {
			return domain.ErrStockNotFound
		}
		origin, dest = a, b
		if origin.ID != in.StockOriginID {
			origin, dest = b, a
		}
		if origin.LocationID != dest.LocationID || origin.ProductID != dest.ProductID || origin.UnitID != dest.UnitID {
			return domain.ErrIncompatibleUnits
		}
		initial := *dest
		dest.Quantity += origin.Quantity
		if err := stockRepo.UpdateVersioned(ctx, dest); err != nil {
			return err
		}
		if err := stockRepo.DeleteVersioned(ctx, origin.ID, origin.Version); err != nil {
			return err
		}
		merged = dest
		return writeRegister(ctx, opTypeRepo, registerRepo, entity.OpFusionStock, &initial, dest)
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// DivideStock separa quantity unidades del stock en una fila nueva con la
// misma ubicación, producto y unidad. Rechaza cantidades fuera de
// (0, stock.Quantity]. Devuelve el par (fila original con el resto y su
// versión nueva, fila separada). Asiento divideStock con el original antes y
// el resto.
func (uc *UseCase) DivideStock(ctx context.Context, tenantID int64, in dto.DivideStockRequest) ([]*entity.Stock, error) {
	if in.StockID == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var pair []*entity.Stock
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		stockRepo repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		opTypeRepo repository.OperationTypeRepository,
		registerRepo repository.RegisterRepository,
	) error {
		current, err := stockRepo.GetByID(ctx, in.StockID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrStockNotFound
		}
		if err := lockLocations(ctx, locationRepo, current.LocationID); err != nil {
			return err
		}
		stock, err := stockRepo.GetForUpdate(ctx, in.StockID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrStockNotFound
		}
		if in.Quantity > stock.Quantity {
			return domain.ErrInvalidQuantity
		}
		initial := *stock
		stock.Quantity -= in.Quantity
		if err := stockRepo.UpdateVersioned(ctx, stock); err != nil {
			return err
		}
		piece := &entity.Stock{
			Quantity:   in.Quantity,
			LocationID: stock.LocationID,
			ProductID:  stock.ProductID,
			UnitID:     stock.UnitID,
			Version:    1,
		}
		if err := stockRepo.Create(ctx, piece); err != nil {
			return err
		}
		pair = []*entity.Stock{stock, piece}
		return writeRegister(ctx, opTypeRepo, registerRepo, entity.OpDivideStock, &initial, stock)
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// GroupStock reexpresa un stock en una unidad mayor (ej. 25 piezas -> 2 cajas
// de 10 y quedan 5 piezas). El convertido se fusiona con un stock existente de
// (producto, unidad destino) en cualquier ubicación, o crea una fila nueva en
// la ubicación origen; el resto queda en la fila original. Devuelve el par
// (fila original con el resto, fila convertida); si no alcanza para convertir
// nada, solo la fila original.
func (uc *UseCase) GroupStock(ctx context.Context, tenantID int64, in dto.RegroupStockRequest) ([]*entity.Stock, error) {
	return uc.regroup(ctx, tenantID, in, entity.OpGroupStock)
}

// UngroupStock reexpresa un stock en una unidad menor (ej. 2 cajas de 10 ->
// 20 piezas). Misma mecánica que GroupStock en dirección opuesta.
func (uc *UseCase) UngroupStock(ctx context.Context, tenantID int64, in dto.RegroupStockRequest) ([]*entity.Stock, error) {
	return uc.regroup(ctx, tenantID, in, entity.OpUngroupStock)
}

func (uc *UseCase) regroup(ctx context.Context, tenantID int64, in dto.RegroupStockRequest, opCode string) ([]*entity.Stock, error) {
	if in.StockID == 0 || in.UnitID == 0 {
		return nil, domain.ErrInvalidInput
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out []*entity.Stock
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		stockRepo repository.StockRepository,
		unitRepo repository.UnitRepository,
		_ repository.ProductRepository,
		opTypeRepo repository.OperationTypeRepository,
		registerRepo repository.RegisterRepository,
	) error {
		current, err := stockRepo.GetByID(ctx, in.StockID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrStockNotFound
		}
		if current.UnitID == in.UnitID {
			return domain.ErrInvalidInput
		}
		fromUnit, err := unitRepo.GetByID(ctx, current.UnitID)
		if err != nil {
			return err
		}
		toUnit, err := unitRepo.GetByID(ctx, in.UnitID)
		if err != nil {
			return err
		}
		if fromUnit == nil || toUnit == nil {
			return domain.ErrUnitNotFound
		}
		// La dirección la fija la operación: agrupar sube de escalar,
		// desagrupar baja.
		if opCode == entity.OpGroupStock && toUnit.BaseUnit <= fromUnit.BaseUnit {
			return domain.ErrIncompatibleUnits
		}
		if opCode == entity.OpUngroupStock && toUnit.BaseUnit >= fromUnit.BaseUnit {
			return domain.ErrIncompatibleUnits
		}
		if err := lockLocations(ctx, locationRepo, current.LocationID); err != nil {
			return err
		}
		stock, err := stockRepo.GetForUpdate(ctx, in.StockID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrStockNotFound
		}
		conv, err := convert(stock.Quantity, fromUnit.BaseUnit, toUnit.BaseUnit)
		if err != nil {
			return err
		}
		initial := *stock
		stock.Quantity = conv.RemainderSrc
		if err := stockRepo.UpdateVersioned(ctx, stock); err != nil {
			return err
		}
		out = []*entity.Stock{stock}
		if conv.Converted > 0 {
			// Candidato de fusión por (producto, unidad destino), sin
			// restringir ubicación.
			candidate, err := stockRepo.FindByProductAndUnitForUpdate(ctx, stock.ProductID, in.UnitID)
			if err != nil {
				return err
			}
			if candidate != nil {
				candidate.Quantity += conv.Converted
				if err := stockRepo.UpdateVersioned(ctx, candidate); err != nil {
					return err
				}
				out = append(out, candidate)
			} else {
				fresh := &entity.Stock{
					Quantity:   conv.Converted,
					LocationID: stock.LocationID,
					ProductID:  stock.ProductID,
					UnitID:     in.UnitID,
					Version:    1,
				}
				if err := stockRepo.Create(ctx, fresh); err != nil {
					return err
				}
				out = append(out, fresh)
			}
		}
		return writeRegister(ctx, opTypeRepo, registerRepo, opCode, &initial, stock)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ChangeLocationStock mueve un stock a otra ubicación. Bloquea la ubicación
// actual y la destino en una sola lectura. Asiento changeLocationStock.
func (uc *UseCase) ChangeLocationStock(ctx context.Context, tenantID int64, in dto.ChangeLocationRequest) (*entity.Stock, error) {
	if in.StockID == 0 || in.LocationID == 0 {
		return nil, domain.ErrInvalidInput
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var moved *entity.Stock
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		stockRepo repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		opTypeRepo repository.OperationTypeRepository,
		registerRepo repository.RegisterRepository,
	) error {
		current, err := stockRepo.GetByID(ctx, in.StockID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrStockNotFound
		}
		if err := lockLocations(ctx, locationRepo, current.LocationID, in.LocationID); err != nil {
			return err
		}
		stock, err := stockRepo.GetForUpdate(ctx, in.StockID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrStockNotFound
		}
		initial := *stock
		stock.LocationID = in.LocationID
		if err := stockRepo.UpdateVersioned(ctx, stock); err != nil {
			return err
		}
		moved = stock
		return writeRegister(ctx, opTypeRepo, registerRepo, entity.OpChangeLocationStock, &initial, stock)
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// CountLocationStock suma las existencias de una ubicación. Bloquea la fila de
// la ubicación para validar existencia y obtener un total consistente frente a
// mutaciones concurrentes. No escribe asiento: es una lectura.
func (uc *UseCase) CountLocationStock(ctx context.Context, tenantID, locationID int64) (*dto.CountLocationResponse, error) {
	if locationID == 0 {
		return nil, domain.ErrInvalidInput
	}
	runner, err := uc.runner(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out *dto.CountLocationResponse
	err = runner.Run(ctx, func(
		locationRepo repository.LocationRepository,
		stockRepo repository.StockRepository,
		_ repository.UnitRepository,
		_ repository.ProductRepository,
		_ repository.OperationTypeRepository,
		_ repository.RegisterRepository,
	) error {
		if err := lockLocations(ctx, locationRepo, locationID); err != nil {
			return err
		}
		total, err := stockRepo.SumQuantityByLocation(ctx, locationID)
		if err != nil {
			return err
		}
		out = &dto.CountLocationResponse{LocationID: locationID, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
