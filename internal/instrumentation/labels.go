package instrumentation

import (
	"net/mail"
	"strings"
)

// Operation labels of the extension commands, used on Google API metrics
// and spans.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
	OperationSend   = "send"
	OperationSearch = "search"
)

// unknownDomain labels recipients without a usable domain.
const unknownDomain = "unknown"

// DomainOf returns the lower-cased domain of a recipient address, which may
// carry a display name ("Jane <jane@example.com>"). Logs and labels use it
// instead of the full address.
func DomainOf(address string) string {
	address = strings.TrimSpace(address)
	if parsed, err := mail.ParseAddress(address); err == nil {
		address = parsed.Address
	}

	at := strings.LastIndexByte(address, '@')
	if at < 0 || at == len(address)-1 {
		return unknownDomain
	}
	return strings.ToLower(address[at+1:])
}
