package entity_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"

	"github.com/stretchr/testify/require"
)

func TestNormalizeInvalid(t *testing.T) {
	e := entity.Normalize("not an object", 3)

	require.Equal(t, "entity-3", e.ID)
	require.Equal(t, "Invalid Entity", e.Type)
	require.Equal(t, "invalid data", e.Value)
	require.Equal(t, 0.0, e.Confidence)

	e = entity.Normalize(nil, 0)
	require.Equal(t, "Invalid Entity", e.Type)
}

func TestNormalizeMissingID(t *testing.T) {
	items := []any{
		map[string]any{"type": "Paziente", "value": "Mario Rossi"},
		map[string]any{"type": "Data Nascita", "value": "15/03/1975"},
	}

	result := entity.NormalizeList(items)

	require.Len(t, result, 2)
	require.Equal(t, "entity-0", result[0].ID)
	require.Equal(t, "entity-1", result[1].ID)
}

func TestNormalizeConfidence(t *testing.T) {
	cases := map[string]map[string]any{
		"absent": {"id": "1", "type": "Paziente", "value": "Mario Rossi"},
		"null":   {"id": "1", "type": "Paziente", "value": "Mario Rossi", "confidence": nil},
		"nan":    {"id": "1", "type": "Paziente", "value": "Mario Rossi", "confidence": math.NaN()},
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			e := entity.Normalize(raw, 0)
			require.Equal(t, 1.0, e.Confidence)
		})
	}

	e := entity.Normalize(map[string]any{"id": "1", "type": "T", "value": "v", "confidence": 1.7}, 0)
	require.Equal(t, 1.0, e.Confidence)

	e = entity.Normalize(map[string]any{"id": "1", "type": "T", "value": "v", "confidence": -0.3}, 0)
	require.Equal(t, 0.0, e.Confidence)

	e = entity.Normalize(map[string]any{"id": "1", "type": "T", "value": "v", "confidence": 0.88}, 0)
	require.Equal(t, 0.88, e.Confidence)
}

func TestNormalizeGroupedMeasurements(t *testing.T) {
	e := entity.Normalize(map[string]any{"altezza": "170", "bmi": "25"}, 0)

	require.Equal(t, "Parametri Fisici", e.Type)
	require.Equal(t, "Altezza: 170, BMI: 25", e.Value)
	require.Equal(t, 1.0, e.Confidence)

	e = entity.Normalize(map[string]any{"fc": "72", "pas": "120", "pad": "80"}, 0)

	require.Equal(t, "Parametri Cardiaci", e.Type)
	require.Equal(t, "FC: 72, PAS: 120, PAD: 80", e.Value)
}

func TestNormalizeNestedValue(t *testing.T) {
	e := entity.Normalize(map[string]any{
		"id":   "5",
		"type": "Terapia",
		"value": map[string]any{
			"farmaco":   "Bisoprololo",
			"dosaggio":  "2.5mg",
			"frequenza": "1/die",
		},
	}, 0)

	require.Equal(t, "5", e.ID)
	require.Equal(t, "Terapia", e.Type)
	require.Equal(t, "Dosaggio: 2.5mg, Farmaco: Bisoprololo, Frequenza: 1/die", e.Value)
}

func TestNormalizeWellFormed(t *testing.T) {
	e := entity.Normalize(map[string]any{
		"id":         "12",
		"type":       "Data Ricovero",
		"value":      "02/01/2025",
		"confidence": 0.95,
		"position": map[string]any{
			"page": 2.0,
			"x0":   50.0, "y0": 100.0, "x1": 200.0, "y1": 115.0,
			"width": 150.0, "height": 15.0,
		},
	}, 0)

	require.Equal(t, "12", e.ID)
	require.Equal(t, "Data Ricovero", e.Type)
	require.Equal(t, "02/01/2025", e.Value)
	require.Equal(t, 0.95, e.Confidence)
	require.NotNil(t, e.Position)
	require.Equal(t, 2, e.Position.Page)
	require.Equal(t, 150.0, e.Position.Width)

	e = entity.Normalize(map[string]any{"id": "7", "type": "Peso Neonato", "value": 3.25}, 0)
	require.Equal(t, "3.25", e.Value)
}

func TestNormalizeFallback(t *testing.T) {
	e := entity.Normalize(map[string]any{
		"id":           "9",
		"dataNascita":  "15/03/1975",
		"luogoNascita": "Torino",
	}, 0)

	require.Equal(t, "Entity", e.Type)
	require.Equal(t, "Data Nascita: 15/03/1975, Luogo Nascita: Torino", e.Value)
}

func TestNormalizeEmptyObject(t *testing.T) {
	e := entity.Normalize(map[string]any{}, 4)

	require.Equal(t, "entity-4", e.ID)
	require.Equal(t, "Entity", e.Type)
	require.Equal(t, "N/A", e.Value)
	require.Equal(t, 1.0, e.Confidence)
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []any{
		map[string]any{"altezza": "170", "bmi": "25"},
		map[string]any{"id": "1", "type": "Paziente", "value": "Mario Rossi", "confidence": 0.9},
		"garbage",
		map[string]any{"campoLibero": "x"},
	}

	first := entity.NormalizeList(inputs)

	data, err := json.Marshal(first)
	require.NoError(t, err)

	var decoded []any
	require.NoError(t, json.Unmarshal(data, &decoded))

	second := entity.NormalizeList(decoded)
	require.Equal(t, first, second)
}

func TestNormalizePayload(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		result := entity.NormalizePayload([]byte(`[{"id":"1","type":"Paziente","value":"Mario Rossi"}]`))

		require.Len(t, result, 1)
		require.Equal(t, "Paziente", result[0].Type)
	})

	t.Run("plain object", func(t *testing.T) {
		result := entity.NormalizePayload([]byte(`{"nome":"Mario","cognome":"Rossi"}`))

		require.Len(t, result, 2)
		require.Equal(t, "entity-0", result[0].ID)
		require.Equal(t, "cognome", result[0].Type)
		require.Equal(t, "Rossi", result[0].Value)
		require.Equal(t, "nome", result[1].Type)
		require.Equal(t, "Mario", result[1].Value)
	})

	t.Run("invalid json", func(t *testing.T) {
		require.Nil(t, entity.NormalizePayload([]byte("{")))
	})
}
