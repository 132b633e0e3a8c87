package wsclient

//go:generate enumer -type Status -text -values -trimprefix Status -output status_string.go
type Status uint32

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusOpen
	StatusClosed
)
