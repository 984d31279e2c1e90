package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRoutes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRoutes(&out))

	s := out.String()
	assert.Contains(t, s, "METHOD")
	assert.Regexp(t, `POST\s+/api/checkout\s+checkout.place`, s)
	assert.Regexp(t, `PATCH\s+/api/admin/coupons/\{id\}/toggle\s+admin.coupons.toggle`, s)
	// Optional handlers are skipped when not wired.
	assert.NotContains(t, s, "/graphql")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "route:list", "migrate", "migrate:rollback", "migrate:status", "seed", "queue:work", "schedule:list", "schedule:run", "events:tail"} {
		assert.True(t, names[want], want)
	}
}

func TestScheduleList(t *testing.T) {
	var out bytes.Buffer
	scheduleListCmd.SetOut(&out)
	require.NoError(t, scheduleListCmd.RunE(scheduleListCmd, nil))
	assert.Contains(t, out.String(), "coupons:expired")
	assert.Contains(t, out.String(), "orders:pending-digest")
}
