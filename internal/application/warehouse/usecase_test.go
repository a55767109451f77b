package warehouse_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/entity"
)

const testTenant = int64(999)

func int64Ptr(v int64) *int64 { return &v }

// lastRegister devuelve el último asiento escrito, fallando si no hay ninguno.
func lastRegister(t *testing.T, f *fixture) *entity.Register {
	t.Helper()
	require.NotEmpty(t, f.registers.entries, "debe existir al menos un asiento")
	return f.registers.entries[len(f.registers.entries)-1]
}

// decodeSnapshot deserializa un snapshot JSON de stock.
func decodeSnapshot(t *testing.T, raw json.RawMessage) entity.Stock {
	t.Helper()
	var s entity.Stock
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateLocation_AsignaVersionUno(t *testing.T) {
	f := newFixture()

	loc, err := f.uc.CreateLocation(context.Background(), testTenant, dto.CreateLocationRequest{
		Code:        "LOC-NUEVA",
		Description: "pasillo 3",
	})
	require.NoError(t, err)

	assert.NotZero(t, loc.ID)
	assert.Equal(t, int64(1), loc.Version, "toda ubicación nueva nace con version 1")
}

func TestCreateLocation_SinCodigo_RetornaInvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateLocation(context.Background(), testTenant, dto.CreateLocationRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetLocation_NoExiste(t *testing.T) {
	f := newFixture()

	_, err := f.uc.GetLocation(context.Background(), testTenant, 404)
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestUpdateLocation_IncrementaVersion(t *testing.T) {
	f := newFixture()

	loc, err := f.uc.UpdateLocation(context.Background(), testTenant, dto.UpdateLocationRequest{
		ID:      1,
		Code:    "LOC-1B",
		Version: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), loc.Version)
}

func TestUpdateLocation_VersionVieja_RetornaConflicto(t *testing.T) {
	f := newFixture()

	_, err := f.uc.UpdateLocation(context.Background(), testTenant, dto.UpdateLocationRequest{
		ID:      1,
		Code:    "LOC-1B",
		Version: 7,
	})
	assert.ErrorIs(t, err, domain.ErrStockConflict)
}

func TestDeleteLocation_NoExiste(t *testing.T) {
	f := newFixture()

	err := f.uc.DeleteLocation(context.Background(), testTenant, dto.DeleteLocationRequest{ID: 404, Version: 1})
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock: alta, actualización, baja
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateStock_EscribeAsientoCreateStock(t *testing.T) {
	f := newFixture()

	stock, err := f.uc.CreateStock(context.Background(), testTenant, dto.CreateStockRequest{
		Quantity:   25,
		LocationID: 1,
		ProductID:  1,
		UnitID:     1,
	})
	require.NoError(t, err)

	assert.NotZero(t, stock.ID)
	assert.Equal(t, int64(1), stock.Version)

	reg := lastRegister(t, f)
	assert.Equal(t, entity.OpCreateStock, f.opTypes.opCode(reg.OperationTypeID))
	assert.JSONEq(t, `{}`, string(reg.InitialStock), "un alta no tiene estado inicial")

	result := decodeSnapshot(t, reg.ResultStock)
	assert.Equal(t, stock.ID, result.ID)
	assert.Equal(t, int64(25), result.Quantity)
}

func TestCreateStock_UbicacionInexistente_SinAsiento(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateStock(context.Background(), testTenant, dto.CreateStockRequest{
		Quantity:   10,
		LocationID: 404,
		ProductID:  1,
		UnitID:     1,
	})

	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
	assert.Empty(t, f.registers.entries, "una operación fallida no deja asiento")
}

func TestCreateStock_ProductoInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateStock(context.Background(), testTenant, dto.CreateStockRequest{
		Quantity:   10,
		LocationID: 1,
		ProductID:  404,
		UnitID:     1,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCreateStock_CantidadNegativa(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CreateStock(context.Background(), testTenant, dto.CreateStockRequest{
		Quantity:   -5,
		LocationID: 1,
		ProductID:  1,
		UnitID:     1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStock_IncrementaVersionYRegistra(t *testing.T) {
	f := newFixture()
	f.stocks = newFakeStockRepo(&entity.Stock{ID: 1, Quantity: 25, LocationID: 1, ProductID: 1, UnitID: 1, Version: 1})

	stock, err := f.uc.UpdateStock(context.Background(), testTenant, dto.UpdateStockRequest{
		ID:       1,
		Quantity: int64Ptr(30),
		Version:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(30), stock.Quantity)
	assert.Equal(t, int64(2), stock.Version, "el update exitoso incrementa la versión en 1")

	reg := lastRegister(t, f)
	assert.Equal(t, entity.OpUpdateStock, f.opTypes.opCode(reg.OperationTypeID))
	initial := decodeSnapshot(t, reg.InitialStock)
	assert.Equal(t, int64(25), initial.Quantity, "el snapshot inicial conserva la cantidad previa")
}

func TestUpdateStock_VersionVieja_RetornaConflictoSinAsiento(t *testing.T) {
	f := newFixture()
	f.stocks = newFakeStockRepo(&entity.Stock{ID: 1, Quantity: 25, LocationID: 1, ProductID: 1, UnitID: 1, Version: 3})

	_, err := f.uc.UpdateStock(context.Background(), testTenant, dto.UpdateStockRequest{
		ID:       1,
		Quantity: int64Ptr(30),
		Version:  1,
	})

	assert.ErrorIs(t, err, domain.ErrStockConflict)
	assert.Empty(t, f.registers.entries)
}

// Cambio de ubicación: la actual y la nueva se bloquean en una sola lectura,
// con los ids ordenados ascendentemente.
func TestUpdateStock_CambioDeUbicacion_BloqueaAmbasOrdenadas(t *testing.T) {
	f := newFixture()
	f.stocks = newFakeStockRepo(&entity.Stock{ID: 1, Quantity: 25, LocationID: 2, ProductID: 1, UnitID: 1, Version: 1})

	stock, err := f.uc.UpdateStock(context.Background(), testTenant, dto.UpdateStockRequest{
		ID:         1,
		LocationID: int64Ptr(1),
		Version:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stock.LocationID)

	require.Len(t, f.locations.lockCalls, 1, "las dos ubicaciones se bloquean en una sola lectura")
	assert.Equal(t, []int64{1, 2}, f.locations.lockCalls[0])
}

func TestUpdateStock_CambiaProducto(t *testing.T) {
	f := newFixture()
	f.products = newFakeProductRepo(&entity.Product{ID: 1, Code: "PROD-1"}, &entity.Product{ID: 2, Code: "PROD-2"})
	f.stocks = newFakeStockRepo(&entity.Stock{ID: 1, Quantity: 25, LocationID: 1, ProductID: 1, UnitID: 1, Version: 1})

	stock, err := f.uc.UpdateStock(context.Background(), testTenant, dto.UpdateStockRequest{
		ID:        1,
		ProductID: int64Ptr(2),
		Version:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), stock.ProductID)
	assert.Equal(t, int64(2), stock.Version)

	stored, err := f.stocks.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.ProductID)
}

func TestUpdateStock_ProductoInexistente(t *testing.T) {
	f := newFixture()
	f.stocks = newFakeStockRepo(&entity.Stock{ID: 1, Quantity: 25, LocationID: 1, ProductID: 1, UnitID: 1, Version: 1})

	_, err := f.uc.UpdateStock(context.Background(), testTenant, dto.UpdateStockRequest{
		ID:        1,
		ProductID: int64Ptr(404),
		Version:   1,
	})

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, f.registers.entries)
}

func TestUpdateStock_UnidadInexistente(t *testing.T) {
	f := newFixture()
	f.stocks = newFakeStockRepo(&entity.Stock{ID: 1, Quantity: 25, LocationID: 1, ProductID: 1, UnitID: 1, Version: 1})

	_, err := f.uc.UpdateStock(context.Background(), testTenant, dto.UpdateStockRequest{
		ID:      1,
		UnitID:  int64Ptr(404),
		Version: 1,
	})

	assert.ErrorIs(t, err, domain.ErrUnitNotFound)
	assert.Empty(t, f.registers.entries)
}

func TestDeleteStock_RetornaSnapshotYRegistra(t *testing.T) {
	f := newFixture()
	f.stocks = newFakeStockRepo(&entity.Stock{ID: 1, Quantity: 25, LocationID: 1, ProductID: 1, UnitID: 1, Version: 1})

	removed, err := f.uc.DeleteStock(context.Background(), testTenant, dto.DeleteStockRequest{ID: 1, Version: 1})
	require.NoError(t, err)

	require.NotNil(t, removed, "la baja devuelve el snapshot de la fila eliminada")
	assert.Equal(t, int64(1), removed.ID)
	assert.Equal(t, int64(25), removed.Quantity)

	gone, err := f.stocks.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, gone)

	reg := lastRegister(t, f)
	assert.Equal(t, entity.OpDeleteStock, f.opTypes.opCode(reg.OperationTypeID))
	assert.JSONEq(t, `{}`, string(reg.ResultStock), "una baja no tiene estado final")
}

func TestDeleteStock_VersionVieja_RetornaConflicto(t *testing.T) {
	f := newFixture()
	f.stocks = newFakeStockRepo(&entity.Stock{ID: 1, Quantity: 25, LocationID: 1, ProductID: 1, UnitID: 1, Version: 2})

	_, err := f.uc.DeleteStock(context.Background(), testTenant, dto.DeleteStockRequest{ID: 1, Version: 1})
	assert.ErrorIs(t, err, domain.ErrStockConflict)
}

func TestGetStock_NoExiste(t *testing.T) {
	f := newFixture()

	_, err := f.uc.GetStock(context.Background(), testTenant, 404)
	assert.ErrorIs(t, err, domain.ErrStockNotFound)
}
