package store

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsClientDataError(t *testing.T) {
	for code, want := range map[string]bool{
		"23505": true,  // unique_violation
		"23502": true,  // not_null_violation
		"22001": true,  // string_data_right_truncation
		"08006": false, // connection_failure
		"57014": false, // query_canceled
		"53300": false, // too_many_connections
	} {
		assert.Equal(t, want, isClientDataError(&pgconn.PgError{Code: code}), code)
	}
}
