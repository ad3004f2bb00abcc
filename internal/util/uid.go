package util

import (
	"fmt"
	"hash/fnv"
)

// uidRoot is the root used for generated UIDs.
const uidRoot = "1.2.826.0.1.3680043.8.498"

// DeterministicUID derives a DICOM UID from key. Equal keys give equal UIDs.
func DeterministicUID(key string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key)) // hash.Write never returns an error
	return fmt.Sprintf("%s.%d", uidRoot, h.Sum64())
}
