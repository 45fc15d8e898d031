package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var payload struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
		Empty Date  `json:"empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-06-10","end":null,"empty":""}`), &payload))
	assert.Equal(t, "2024-06-10", payload.Start.String())
	assert.Nil(t, payload.End)
	assert.True(t, payload.Empty.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-06-10","end":null,"empty":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"10/06/2024"}`), &payload))
	assert.Error(t, json.Unmarshal([]byte(`{"start":20240610}`), &payload))
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-10", d.String())

	require.NoError(t, d.Scan("2024-07-01"))
	assert.Equal(t, "2024-07-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-08-02")))
	assert.Equal(t, "2024-08-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := MustDate("2024-06-10").Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDateArithmetic(t *testing.T) {
	d := MustDate("2024-06-15")
	assert.Equal(t, "2023-12-15", d.AddMonths(-6).String())
	assert.Equal(t, "2024-06-16", d.AddDays(1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.Equal(DateOf(time.Date(2024, 6, 15, 23, 59, 0, 0, time.UTC))))
}
