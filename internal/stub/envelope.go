package stub

import (
	"encoding/json"
	"errors"
	"net/http"
)

// envelope 后端统一响应 {code, data, msg}
// envelope is the backend's uniform response body
type envelope struct {
	Code int    `json:"code"`
	Data any    `json:"data"`
	Msg  string `json:"msg"`
}

// statusError 带 HTTP 状态码的业务错误
// statusError is a handler error carrying an HTTP status
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(msg string) error   { return &statusError{status: http.StatusBadRequest, msg: msg} }
func unauthorized(msg string) error { return &statusError{status: http.StatusUnauthorized, msg: msg} }
func notFound(msg string) error     { return &statusError{status: http.StatusNotFound, msg: msg} }

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, envelope{Code: http.StatusOK, Msg: "success"})
}

func okWithData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Code: http.StatusOK, Data: data, Msg: "success"})
}

// fail 未知错误按 500 返回
// fail maps unknown errors to 500
func fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var se *statusError
	if errors.As(err, &se) {
		status = se.status
	}
	writeJSON(w, status, envelope{Code: status, Msg: err.Error()})
}
