package formdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformFieldPrecedence(t *testing.T) {
	// First-listed candidate key wins, deterministically.
	raw := map[string]any{
		"StudentName": "A",
		"studentName": "B",
	}

	for range 10 {
		got := Transform(raw)
		assert.Equal(t, "A", got.StudentName)
	}
}

func TestTransformCasingVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"pascal case", map[string]any{"StudentName": "Ravi", "FatherName": "Mohan", "RollCode": "42011"}},
		{"camel case", map[string]any{"studentName": "Ravi", "fatherName": "Mohan", "rollCode": "42011"}},
		{"snake case", map[string]any{"student_name": "Ravi", "father_name": "Mohan", "roll_code": "42011"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Transform(tt.raw)
			assert.Equal(t, "Ravi", got.StudentName)
			assert.Equal(t, "Mohan", got.FatherName)
			assert.Equal(t, "42011", got.RollCode)
		})
	}
}

func TestTransformIdempotence(t *testing.T) {
	raw := map[string]any{
		"studentName": "Ravi Kumar",
		"rollNumber":  float64(190042),
		"address":     map[string]any{"district": "Patna", "state": "Bihar"},
	}

	first, err := json.Marshal(Transform(raw))
	require.NoError(t, err)
	second, err := json.Marshal(Transform(raw))
	require.NoError(t, err)

	assert.Equal(t, first, second, "same payload must normalize byte-identically")
}

func TestTransformNumericRollNumber(t *testing.T) {
	got := Transform(map[string]any{"rollNumber": float64(190042)})
	assert.Equal(t, "190042", got.RollNumber)
}

func TestTransformAbsentFieldsStayAbsent(t *testing.T) {
	got := Transform(map[string]any{"studentName": "Ravi"})

	payload, err := json.Marshal(got)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(payload, &out))
	assert.NotContains(t, out, "fatherName", "unmapped fields must stay undefined, not empty strings")
	assert.NotContains(t, out, "address")
}

func TestTransformNilValuesAreSkipped(t *testing.T) {
	got := Transform(map[string]any{
		"StudentName": nil,
		"studentName": "B",
	})
	assert.Equal(t, "B", got.StudentName, "null value must fall through to the next candidate")
}

func TestTransformAddress(t *testing.T) {
	t.Run("absent address is nil", func(t *testing.T) {
		got := Transform(map[string]any{"studentName": "Ravi"})
		assert.Nil(t, got.Address)
	})

	t.Run("nested address is transformed recursively", func(t *testing.T) {
		got := Transform(map[string]any{
			"Address": map[string]any{
				"Village":  "Rampur",
				"district": "Patna",
				"State":    "Bihar",
				"pinCode":  float64(800001),
			},
		})
		require.NotNil(t, got.Address)
		assert.Equal(t, "Rampur", got.Address.Village)
		assert.Equal(t, "Patna", got.Address.District)
		assert.Equal(t, "Bihar", got.Address.State)
		assert.Equal(t, "800001", got.Address.PinCode)
	})
}

func TestTransformPreservesRawPayload(t *testing.T) {
	raw := map[string]any{
		"studentName":     "Ravi",
		"unmappedUpfield": "kept for forward compatibility",
	}
	got := Transform(raw)
	assert.Equal(t, raw, got.Raw)
}

func TestTransformNilInput(t *testing.T) {
	assert.Nil(t, Transform(nil))
}
