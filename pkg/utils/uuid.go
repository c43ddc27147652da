package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUID generates a new UUID v4.
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateRequestID generates a request ID (UUID v4).
func GenerateRequestID() string {
	return GenerateUUID()
}

// GenerateArtifactName builds a unique blob name under the given prefix.
func GenerateArtifactName(prefix, ext string) string {
	return fmt.Sprintf("%s/%s.%s", prefix, GenerateUUID(), ext)
}

// IsValidUUID checks if a string is a valid UUID.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
