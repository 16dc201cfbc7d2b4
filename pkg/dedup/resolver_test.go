package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		patterns []string
		expected string
		found    bool
	}{
		{
			name:     "exact match",
			columns:  []string{"EMPLEADO", "DOCUMENTO", "CARGO"},
			patterns: []string{"documento"},
			expected: "DOCUMENTO",
			found:    true,
		},
		{
			name:     "pattern is substring of column",
			columns:  []string{"Documento Identidad"},
			patterns: []string{"documento"},
			expected: "Documento Identidad",
			found:    true,
		},
		{
			name:     "column is substring of pattern",
			columns:  []string{"Docto"},
			patterns: []string{"docto ident"},
			expected: "Docto",
			found:    true,
		},
		{
			name:     "underscores and case ignored",
			columns:  []string{"F_INGRESO"},
			patterns: []string{"f ingreso"},
			expected: "F_INGRESO",
			found:    true,
		},
		{
			name:     "earlier pattern wins over later",
			columns:  []string{"Fecha", "Fecha Ingreso"},
			patterns: []string{"fecha ingreso", "fecha"},
			expected: "Fecha Ingreso",
			found:    true,
		},
		{
			name:     "lowest column index wins within one pattern",
			columns:  []string{"cedula titular", "cedula conyuge"},
			patterns: []string{"cedula"},
			expected: "cedula titular",
			found:    true,
		},
		{
			name:     "no match",
			columns:  []string{"EMPLEADO", "CARGO"},
			patterns: []string{"documento", "cedula"},
			found:    false,
		},
		{
			name:     "empty column list",
			columns:  nil,
			patterns: []string{"documento"},
			found:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := ResolveColumn(tt.columns, tt.patterns)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, match.Column)
			}
		})
	}
}

// Given both "Fecha Ingreso" and "Fecha", the default date candidates must
// prefer the more specific ingreso column even though "fecha" alone would
// match the plain date column first.
func TestResolveColumn_DateCandidatePriority(t *testing.T) {
	columns := []string{"Fecha Ingreso", "Fecha"}
	patterns := []string{"f ingreso", "fecha ingreso", "fecha"}

	match, ok := ResolveColumn(columns, patterns)
	require.True(t, ok)
	assert.Equal(t, "Fecha Ingreso", match.Column)
	assert.Equal(t, 0, match.Index)
}

func TestResolveColumn_Deterministic(t *testing.T) {
	columns := []string{"dni titular", "dni beneficiario", "dni"}
	patterns := []string{"dni"}

	first, ok := ResolveColumn(columns, patterns)
	require.True(t, ok)
	for i := 0; i < 50; i++ {
		match, ok := ResolveColumn(columns, patterns)
		require.True(t, ok)
		require.Equal(t, first, match)
	}
	assert.Equal(t, 0, first.Index)
}

func TestCompactName(t *testing.T) {
	assert.Equal(t, "fingreso", compactName("  F_INGRESO "))
	assert.Equal(t, "doctoident", compactName("Docto. Ident"))
	assert.Equal(t, "fechaingreso", compactName("fecha-ingreso"))
	assert.Equal(t, "", compactName("   "))
}
