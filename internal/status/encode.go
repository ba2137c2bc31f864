// internal/status/encode.go
package status

import "encoding/json"

// Encode renders a Snapshot as the JSON payload published on the
// bridge status topic. No IO. No side effects.
func Encode(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}
