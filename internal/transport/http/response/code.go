package response

// 业务码直接沿用 HTTP 语义；0 为成功
const (
	CodeOK              = 0
	CodePartial         = 207
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409
	CodeTooManyRequests = 429
	CodeServerError     = 500
	CodeBadGateway      = 502
	CodeUnavailable     = 503
	CodeGatewayTimeout  = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:              "OK",
	CodePartial:         "Partially Applied",
	CodeBadRequest:      "Bad Request",
	CodeUnauthorized:    "Unauthorized",
	CodeForbidden:       "Forbidden",
	CodeNotFound:        "Not Found",
	CodeConflict:        "Conflict",
	CodeTooManyRequests: "Too Many Requests",
	CodeServerError:     "Internal Server Error",
	CodeBadGateway:      "Bad Gateway",
	CodeUnavailable:     "Service Unavailable",
	CodeGatewayTimeout:  "Gateway Timeout",
}

// Status 业务码对应的 HTTP 状态；0 和 207 都按 200 发
func Status(code int) int {
	if code == CodeOK || code == CodePartial {
		return 200
	}
	if code < 100 || code > 599 {
		return 500
	}
	return code
}
