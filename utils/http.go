// utils/http.go
package utils

import (
	"net/http"
	"time"
)

// HTTPClient is shared by outbound provider calls (payments, profile sync).
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}
