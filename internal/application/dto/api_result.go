package dto

// Envelope de respuesta compatible con los clientes existentes: toda respuesta,
// exitosa o no, viaja como ApiResult. Las fallas usan status 500 y un único
// código de error (REG01); el detalle queda en message.
type ApiResult struct {
	Status    int        `json:"status"`
	Data      any        `json:"data"`
	Errors    []ApiError `json:"errors"`
	RequestID int64      `json:"requestId"`
}

// ApiError error serializable del envelope.
type ApiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Help    string `json:"help"`
}

// Código único de error del contrato.
const ErrorCodeRegister = "REG01"

// Mensajes de error del contrato (los clientes hacen match por texto exacto).
const (
	MsgLocationNotExist = "The location does not exist."
	MsgStockNotExist    = "The stock does not exist."
	MsgStocksNotMerged  = "The stocks cannot be merged"
	MsgTenantNotExist   = "The tenant does not exist."
)

// OK construye un envelope exitoso.
func OK(status int, data any, requestID int64) ApiResult {
	return ApiResult{Status: status, Data: data, Errors: []ApiError{}, RequestID: requestID}
}

// Fail construye un envelope de error con el código REG01.
func Fail(message string, requestID int64) ApiResult {
	return ApiResult{
		Status:    500,
		Data:      nil,
		Errors:    []ApiError{{Code: ErrorCodeRegister, Message: message, Detail: "", Help: ""}},
		RequestID: requestID,
	}
}
