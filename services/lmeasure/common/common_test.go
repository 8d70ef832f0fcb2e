package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OK", ErrorKind(nil))
	assert.Equal(t, "UnknownMetric", ErrorKind(fmt.Errorf("%w 'x'", ErrUnknownMetric)))
	assert.Equal(t, "ExecutionTimeout", ErrorKind(ErrExecutionTimeout))
	assert.Equal(t, "EncodingError", ErrorKind(ErrEncoding))
	assert.Equal(t, "Internal", ErrorKind(errors.New("disk full")))

	err, found := ErrorForKind("ToolFailure")
	assert.True(t, found)
	assert.Equal(t, ErrToolFailure, err)

	_, found = ErrorForKind("Nope")
	assert.False(t, found)
}

func TestValue(t *testing.T) {
	t.Parallel()

	t.Run("integer", func(t *testing.T) {
		v, err := ParseValue("42", Integer)
		require.Nil(t, err)
		assert.Equal(t, int64(42), v.Int())
		assert.Equal(t, 42.0, v.Float())
		assert.Equal(t, "42", v.String())

		_, err = ParseValue("4.2", Integer)
		assert.NotNil(t, err)
	})
	t.Run("real", func(t *testing.T) {
		v, err := ParseValue("4.25", Real)
		require.Nil(t, err)
		assert.Equal(t, 4.25, v.Float())
		assert.Equal(t, int64(4), v.Int())
		assert.Equal(t, Real, v.Type())
	})
	t.Run("json keeps the kind", func(t *testing.T) {
		rec := MetricRecord{
			Metric:        "N_tips",
			Total:         IntValue(12),
			Min:           IntValue(1),
			Max:           IntValue(7),
			Avg:           RealValue(3.5),
			NCompartments: 4,
			Unit:          "",
		}
		buff, err := json.Marshal(rec)
		require.Nil(t, err)
		assert.Equal(t, `{"metric":"N_tips","total":12,"n_compart":4,"n_exclude":0,"min":1,"avg":3.5,"max":7,"units":""}`, string(buff))

		buff, err = json.Marshal(RealValue(2))
		require.Nil(t, err)
		assert.Equal(t, "2", string(buff))

		buff, err = json.Marshal(RealValue(math.NaN()))
		require.Nil(t, err)
		assert.Equal(t, "null", string(buff))

		buff, err = json.Marshal(RealValue(math.Inf(-1)))
		require.Nil(t, err)
		assert.Equal(t, "null", string(buff))
	})
	t.Run("every NaN spelling is a real NaN", func(t *testing.T) {
		for _, raw := range []string{"nan", "-nan", "+nan", "NaN", "-NAN"} {
			v, err := ParseValue(raw, Real)
			require.Nil(t, err, raw)
			assert.True(t, math.IsNaN(v.Float()), raw)
		}

		_, err := ParseValue("-nan", Integer)
		assert.NotNil(t, err)
		_, err = ParseReal("nana")
		assert.NotNil(t, err)
	})
}

func TestValueType_Text(t *testing.T) {
	t.Parallel()

	var vt ValueType
	require.Nil(t, vt.UnmarshalText([]byte("real")))
	assert.Equal(t, Real, vt)
	require.Nil(t, vt.UnmarshalText([]byte("int")))
	assert.Equal(t, Integer, vt)
	assert.NotNil(t, vt.UnmarshalText([]byte("complex")))

	text, err := Real.MarshalText()
	require.Nil(t, err)
	assert.Equal(t, "real", string(text))

	_, err = ValueType(9).MarshalText()
	assert.NotNil(t, err)
	assert.Equal(t, "unknown", ValueType(9).String())

	var unset ValueType
	assert.Equal(t, Unknown, unset)
	_, err = unset.MarshalText()
	assert.NotNil(t, err)
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exited", OutcomeExited.String())
	assert.Equal(t, "timed-out", OutcomeTimedOut.String())
	assert.Equal(t, "spawn-failed", OutcomeSpawnFailed.String())
	assert.Equal(t, "unknown", Outcome(5).String())
}
