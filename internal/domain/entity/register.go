package entity

import (
	"encoding/json"
	"time"
)

// Register asiento del libro de auditoría (append-only). InitialStock y
// ResultStock son snapshots JSON del stock antes y después de la operación;
// cuando no aplica (alta o baja) el snapshot vacío es el objeto `{}`.
type Register struct {
	ID              int64           `json:"id"`
	InitialStock    json.RawMessage `json:"initial_stock"`
	ResultStock     json.RawMessage `json:"result_stock"`
	OperationTypeID int64           `json:"operation_type_id"`
	Timestamp       time.Time       `json:"timestamp"`
}

// EmptySnapshot snapshot JSON vacío para asientos sin estado inicial o final.
var EmptySnapshot = json.RawMessage(`{}`)
