package config

const (
	DefaultBaseURL = "http://127.0.0.1:8888"
	DefaultWSURL   = "ws://127.0.0.1:9000/ws"

	DefaultHistoryLimit = 50
)
