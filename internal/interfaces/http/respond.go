package http

import (
	"errors"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"

	"github.com/nuplus/warehouses-api/internal/application/dto"
	"github.com/nuplus/warehouses-api/internal/domain"
	"github.com/nuplus/warehouses-api/internal/domain/repository"
)

// Contador de requestId del envelope, global al proceso.
var requestCounter atomic.Int64

func nextRequestID() int64 {
	return requestCounter.Add(1)
}

// respondOK serializa el envelope exitoso con el status del contrato
// (201 para altas, 200 para el resto).
func respondOK(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.OK(status, data, nextRequestID()))
}

// respondErr serializa el envelope de error. Todo fallo viaja como 500 con el
// código REG01; el detalle del dominio queda en message.
func respondErr(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail(errorMessage(err), nextRequestID()))
}

// errorMessage traduce el error de dominio al mensaje del contrato. Los
// clientes hacen match por texto exacto, por eso conflicto de versión y fila
// inexistente comparten mensaje: desde afuera son indistinguibles sin releer.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		return dto.MsgLocationNotExist
	case errors.Is(err, domain.ErrStockNotFound), errors.Is(err, domain.ErrStockConflict):
		return dto.MsgStockNotExist
	case errors.Is(err, domain.ErrIncompatibleUnits):
		return dto.MsgStocksNotMerged
	case errors.Is(err, domain.ErrTenantNotFound):
		return dto.MsgTenantNotExist
	default:
		return err.Error()
	}
}

// tenantID resuelve el tenant de la petición: claims del token si hay sesión,
// si no el query param ?id= del contrato original.
func tenantID(c *fiber.Ctx) (int64, error) {
	if id := GetTenantID(c); id != 0 {
		return id, nil
	}
	raw := c.Query("id")
	if raw == "" {
		return 0, domain.ErrTenantNotFound
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, domain.ErrTenantNotFound
	}
	return parsed, nil
}

// parseListQuery interpreta la gramática de listado:
// filter=property:rule:value (repetible), sort=property:ASC|DESC, skip, limit.
func parseListQuery(c *fiber.Ctx) repository.ListQuery {
	q := repository.ListQuery{
		Skip:  c.QueryInt("skip", 0),
		Limit: c.QueryInt("limit", 0),
	}
	for _, raw := range c.Context().QueryArgs().PeekMulti("filter") {
		parts := strings.SplitN(string(raw), ":", 3)
		f := repository.Filter{Property: parts[0]}
		if len(parts) > 1 {
			f.Rule = parts[1]
		}
		if len(parts) > 2 {
			f.Value = parts[2]
		}
		q.Filters = append(q.Filters, f)
	}
	if sort := c.Query("sort"); sort != "" {
		parts := strings.SplitN(sort, ":", 2)
		q.SortBy = parts[0]
		q.SortDesc = len(parts) > 1 && strings.EqualFold(parts[1], "DESC")
	}
	return q
}
