// Package pkg, katmanlar arasında paylaşılan hata ve yanıt yardımcılarıdır.
//
// Service'ler sentinel'leri detayla wrap ederek döner:
//
//	return fmt.Errorf("%w: receiver not found", pkg.ErrNotFound)
//
// HTTP ve WebSocket katmanı errors.Is ile eşleştirir.
package pkg

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)

// clientErrors, istemciye mesajıyla gösterilebilen hatalar ve HTTP karşılıkları.
var clientErrors = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrAlreadyExists, http.StatusConflict},
	{ErrBadRequest, http.StatusBadRequest},
}

// IsClientError, err bir domain hatası mı? Değilse (SQL, I/O) mesajı
// dışarı verilmez.
func IsClientError(err error) bool {
	_, ok := clientStatus(err)
	return ok
}

func clientStatus(err error) (int, bool) {
	for _, ce := range clientErrors {
		if errors.Is(err, ce.err) {
			return ce.status, true
		}
	}
	return 0, false
}
