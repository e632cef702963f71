package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gormTag(t *testing.T, model interface{}, field string) string {
	f, ok := reflect.TypeOf(model).FieldByName(field)
	require.True(t, ok, "field %s not found", field)
	return f.Tag.Get("gorm")
}

// Equality predicates on these columns must not case-fold: a sender whose
// address differs in case from the stored one matches no client, and thread
// lookups must not conflate case-variant message ids. The server's default
// collation is case-insensitive, so the columns carry a binary collation.
func TestMatchedColumnsUseBinaryCollation(t *testing.T) {
	assert.Contains(t, gormTag(t, Client{}, "PrimaryEmail"), "COLLATE utf8mb4_bin")
	assert.Contains(t, gormTag(t, Client{}, "AlternateEmail"), "COLLATE utf8mb4_bin")
	assert.Contains(t, gormTag(t, Mail{}, "MessageID"), "COLLATE utf8mb4_bin")
}
