package handle

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation" // клиент не прислал обязательное поле
	KindUpstream   Kind = "upstream"   // вызов модели завершился ошибкой
	KindInternal   Kind = "internal"   // запрос не удалось обработать до вызова модели
)

// statusByKind: единственное место, где вид ошибки превращается в HTTP-статус.
var statusByKind = map[Kind]int{
	KindValidation: http.StatusBadRequest,
	KindUpstream:   http.StatusInternalServerError,
	KindInternal:   http.StatusInternalServerError,
}

// Error несёт вид ошибки; текст ровно как у исходной ошибки.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func ValidationError(msg string) error {
	return &Error{Kind: KindValidation, Err: errors.New(msg)}
}

func UpstreamError(err error) error {
	return &Error{Kind: KindUpstream, Err: err}
}

func InternalError(err error) error {
	return &Error{Kind: KindInternal, Err: err}
}

func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// StatusFor: для неизвестных ошибок 500.
func StatusFor(err error) int {
	var e *Error
	if errors.As(err, &e) {
		if code, ok := statusByKind[e.Kind]; ok {
			return code
		}
	}
	return http.StatusInternalServerError
}
