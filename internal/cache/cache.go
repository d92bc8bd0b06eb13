// Package cache stores predictor responses so that re-scoring a corpus,
// or scoring several attack variants that share paragraphs, does not
// re-query the model for every example.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface shared by the memory, disk, and layered
// implementations
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// PredictionKey derives a cache key from everything that determines a
// prediction: the model, the question, and the context the model saw.
func PredictionKey(modelName, question, context string) string {
	h := sha256.New()
	h.Write([]byte(modelName))
	h.Write([]byte{0})
	h.Write([]byte(question))
	h.Write([]byte{0})
	h.Write([]byte(context))
	return "perturbia:v1:" + hex.EncodeToString(h.Sum(nil))
}
