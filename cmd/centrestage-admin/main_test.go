package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleFlags(t *testing.T) {
	opts, err := parseRoleFlags("add-role", []string{"--uid", "uid-1", "--role", "admin"})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", opts.UID)
	assert.Equal(t, "admin", opts.Role)

	_, err = parseRoleFlags("add-role", []string{"--role", "admin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--uid is required")

	_, err = parseRoleFlags("add-role", []string{"--uid", "uid-1", "--role", "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--role is required")
}

func TestParseUIDFlags(t *testing.T) {
	opts, err := parseUIDFlags("revoke-sessions", []string{"--uid", " uid-1 "})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", opts.UID)

	_, err = parseUIDFlags("revoke-sessions", nil)
	require.Error(t, err)
}

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)

	opts, err = parseMigrateFlags([]string{"--timeout", "30s"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, opts.Timeout)

	_, err = parseMigrateFlags([]string{"--timeout", "0s"})
	require.Error(t, err)
}

func TestParseSeedFlags(t *testing.T) {
	opts, err := parseSeedFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, opts.Timeout)
	assert.Empty(t, opts.AdminUID)

	opts, err = parseSeedFlags([]string{"--admin-uid", "uid-1", "--timeout", "2m"})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", opts.AdminUID)
	assert.Equal(t, 2*time.Minute, opts.Timeout)

	_, err = parseSeedFlags([]string{"--timeout", "-1s"})
	require.Error(t, err)
}

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := []struct {
		host   string
		remote bool
	}{
		{host: "localhost", remote: false},
		{host: "127.0.0.1", remote: false},
		{host: "::1", remote: false},
		{host: "db.internal.local", remote: false},
		{host: "", remote: false},
		{host: "10.0.0.5", remote: true},
		{host: "db.prod.example.com", remote: true},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.remote, isLikelyRemoteHost(tt.host))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"centrestage"`, quoteIdentifier("centrestage"))
	assert.Equal(t, `"we""ird"`, quoteIdentifier(`we"ird`))
}
