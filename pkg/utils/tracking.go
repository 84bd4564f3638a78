package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// GenerateTrackingID returns a shipment tracking id of the form
// DD-YYYYMMDD-XXXXXX, e.g. DD-20250114-9F3A1C. With 24 bits of randomness
// per day it is human-friendly rather than collision-proof; settlement
// uniqueness is enforced on the payment transaction id, not here.
func GenerateTrackingID() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}

	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(fmt.Sprintf("%x", b))

	return fmt.Sprintf("DD-%s-%s", date, suffix)
}
