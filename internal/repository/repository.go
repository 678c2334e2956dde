// Package repository holds the persistence abstractions for users,
// invitations and properties, with one implementation per backend variant.
package repository

import (
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// now is the clock used for server-assigned timestamps.
var now = func() time.Time {
	return time.Now().UTC()
}

func isFirestoreNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern for a substring match.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
