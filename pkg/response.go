package pkg

import (
	"encoding/json"
	"net/http"
)

// APIResponse, tüm HTTP yanıtlarının zarfı:
//
//	{"success": true, "data": {...}}
//	{"success": false, "error": "not found: user"}
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON, başarılı bir yanıt gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

// Error, hatayı HTTP yanıtına çevirir. Domain hatası değilse 500 ve
// "internal error" döner.
func Error(w http.ResponseWriter, err error) {
	status, ok := clientStatus(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, APIResponse{Error: ErrInternal.Error()})
		return
	}
	writeJSON(w, status, APIResponse{Error: err.Error()})
}

func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, APIResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Status yazıldı; encode hatası yalnızca bağlantı koptuğunda olur.
	_ = json.NewEncoder(w).Encode(resp)
}
