package article

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// deterministicUUID derives a stable UUID from a key using go-hashid.
//
// Callers must prefix keys by entity kind to prevent cross-entity collisions.
func deterministicUUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// UUID returns the deterministic identity of an article title. Title is the
// traversal identity, so two articles with the same title share an identity.
func UUID(title string) uuid.UUID {
	return deterministicUUID("auteur:article:" + strings.TrimSpace(title))
}
