package news

import (
	"fmt"
	"strings"
)

// FallbackMessage is shown when a failure carries no usable message.
const FallbackMessage = "Something went wrong, please try again"

// ErrorInfo is the status code and message surfaced from a failed read or
// write. Status 0 means the request never produced an HTTP response.
type ErrorInfo struct {
	Status int
	Msg    string
}

// String renders the error for a banner.
func (e ErrorInfo) String() string {
	msg := strings.TrimSpace(e.Msg)
	if msg == "" {
		msg = FallbackMessage
	}
	if e.Status == 0 {
		return msg
	}
	return fmt.Sprintf("%d · %s", e.Status, msg)
}
