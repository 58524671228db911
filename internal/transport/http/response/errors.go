package response

import (
	"errors"

	"market-thrifty/internal/domain"
)

// AErr handler 里直接指定业务码的错误
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

// BadRequest 入参绑定/校验失败
func BadRequest(err error) error { return &AErr{Code: CodeBadRequest, Msg: err.Error(), Err: err} }

var codeOf = []struct {
	err  error
	code int
}{
	{domain.ErrUnauthenticated, CodeUnauthorized},
	{domain.ErrForbidden, CodeForbidden},
	{domain.ErrNotFound, CodeNotFound},
	{domain.ErrInvalidInput, CodeBadRequest},
	{domain.ErrInvalidRole, CodeBadRequest},
	{domain.ErrInvalidPrice, CodeBadRequest},
	{domain.ErrInvalidAmount, CodeBadRequest},
	{domain.ErrAlreadyPaid, CodeConflict},
	{domain.ErrAlreadyBooked, CodeConflict},
	{domain.ErrDuplicateUser, CodeConflict},
	{domain.ErrDuplicateCategory, CodeConflict},
	{domain.ErrDuplicatePayment, CodeConflict},
	{domain.ErrPartialReconciliation, CodePartial},
	{domain.ErrGatewayTimeout, CodeGatewayTimeout},
	{domain.ErrGateway, CodeBadGateway},
	{domain.ErrPersistence, CodeServerError},
}

// FromError 错误 → (业务码, 对外消息)；500 不外泄底层细节
func FromError(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Code >= CodeServerError {
			return ae.Code, CodeMsgMap[ae.Code]
		}
		return ae.Code, ae.Error()
	}
	for _, m := range codeOf {
		if errors.Is(err, m.err) {
			switch m.code {
			case CodeServerError:
				return m.code, CodeMsgMap[m.code]
			case CodePartial:
				return m.code, m.err.Error()
			}
			return m.code, err.Error()
		}
	}
	return CodeServerError, CodeMsgMap[CodeServerError]
}
