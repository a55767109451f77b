package entity

// Códigos del catálogo de tipos de operación (tabla operation_types, sembrada por migración).
const (
	OpCreateStock         = "createStock"
	OpDeleteStock         = "deleteStock"
	OpUpdateStock         = "updateStock"
	OpFusionStock         = "fusionStock"
	OpDivideStock         = "divideStock"
	OpGroupStock          = "groupStock"
	OpUngroupStock        = "ungroupStock"
	OpChangeLocationStock = "changeLocationStock"
	OpCountLocationStock  = "countLocationStock"
)

// OperationType entrada del catálogo de operaciones auditables.
type OperationType struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
