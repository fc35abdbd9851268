// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/neuro-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildInsertAuditEventQuery(t *testing.T) {
	at := time.Date(2026, 5, 6, 7, 8, 9, 10, time.UTC)
	e := models.AuditEvent{
		ID:        "id-1",
		SessionID: "sess",
		Operation: models.OpAuthenticate,
		Outcome:   models.OutcomeRejected,
		Reason:    "timeout",
		Attempts:  2,
		Detail:    "d",
		CreatedAt: at,
	}

	query, args, err := buildInsertAuditEventQuery(e)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "insert into audit_events")
	require.Equal(t, len(auditEventColumns), strings.Count(query, "?"), "sqlite placeholders")
	require.NotContains(t, query, "$1")

	assert.Equal(t, []any{"id-1", "sess", models.OpAuthenticate, models.OutcomeRejected, "timeout", 2, "d", "2026-05-06T07:08:09.000000010Z"}, args)
}

func Test_buildListAuditEventsQuery(t *testing.T) {
	tests := []struct {
		name         string
		filter       models.AuditFilter
		wantContains []string
		wantMissing  []string
		wantArgs     int
	}{
		{
			name:         "no filter",
			filter:       models.AuditFilter{},
			wantContains: []string{"from audit_events", "order by created_at desc, id desc"},
			wantMissing:  []string{"where", "limit"},
		},
		{
			name:         "operation",
			filter:       models.AuditFilter{Operation: models.OpRestore},
			wantContains: []string{"where operation = ?"},
			wantArgs:     1,
		},
		{
			name:         "since and limit",
			filter:       models.AuditFilter{Since: time.Unix(0, 0), Limit: 5},
			wantContains: []string{"created_at >= ?", "limit 5"},
			wantArgs:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildListAuditEventsQuery(tt.filter)
			require.NoError(t, err)

			q := strings.ToLower(query)
			for _, part := range tt.wantContains {
				assert.Contains(t, q, part)
			}
			for _, part := range tt.wantMissing {
				assert.NotContains(t, q, part)
			}
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func Test_formatCreatedAt_SortsLexically(t *testing.T) {
	a := formatCreatedAt(time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC))
	b := formatCreatedAt(time.Date(2026, 1, 1, 0, 0, 5, 100, time.UTC))
	c := formatCreatedAt(time.Date(2026, 1, 1, 0, 0, 6, 0, time.FixedZone("X", 3600)))

	assert.Less(t, a, b)
	assert.Less(t, c, a, "zone is normalised to UTC")
	assert.Len(t, a, len(createdAtLayout))
}
