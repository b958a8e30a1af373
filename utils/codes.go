package utils

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// GenerateOrderNumber returns a human-readable order number in the form
// LND followed by 8 digits. Uniqueness is enforced by the orders table,
// callers retry on the rare collision.
func GenerateOrderNumber() string {
	u := uuid.New()
	n := binary.BigEndian.Uint32(u[:4]) % 100000000
	return fmt.Sprintf("LND%08d", n)
}

// NewDeliveryCode returns the opaque string embedded in the delivery QR
// image rendered by the client.
func NewDeliveryCode() string {
	return "DLV-" + uuid.NewString()
}

// NewPickupToken returns the opaque token issued when an order becomes
// ready. Redeemable exactly once.
func NewPickupToken() string {
	return "PKP-" + uuid.NewString()
}
