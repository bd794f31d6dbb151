package httperr

import "errors"

// BusinessError é a falha de regra de negócio que sobe dos use cases
// até o handler; o código vira o error_code da resposta.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
