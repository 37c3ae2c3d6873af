package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("creates valid address", func(t *testing.T) {
		addr, err := NewAddress("12 MG Road", "Bengaluru", "Karnataka", "560001")
		require.NoError(t, err)
		assert.Equal(t, "12 MG Road", addr.Line())
		assert.Equal(t, "Bengaluru", addr.City())
		assert.Equal(t, "Karnataka", addr.State())
		assert.Equal(t, "560001", addr.Pincode())
		assert.True(t, addr.IsComplete())
	})

	t.Run("pincode is optional", func(t *testing.T) {
		addr, err := NewAddress("12 MG Road", "Bengaluru", "Karnataka", "")
		require.NoError(t, err)
		assert.False(t, addr.IsComplete())
		assert.False(t, addr.IsEmpty())
	})

	t.Run("rejects empty line", func(t *testing.T) {
		_, err := NewAddress("", "Bengaluru", "Karnataka", "560001")
		assert.Error(t, err)
	})

	t.Run("rejects malformed pincode", func(t *testing.T) {
		_, err := NewAddress("12 MG Road", "Bengaluru", "Karnataka", "0123")
		assert.Error(t, err)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		addr, err := NewAddress("  12 MG Road ", " Bengaluru ", " Karnataka ", " 560001 ")
		require.NoError(t, err)
		assert.Equal(t, "Bengaluru", addr.City())
		assert.Equal(t, "560001", addr.Pincode())
	})
}

func TestAddressString(t *testing.T) {
	addr := MustNewAddress("12 MG Road", "Bengaluru", "Karnataka", "560001")
	assert.Equal(t, "12 MG Road, Bengaluru, Karnataka, 560001", addr.String())
	assert.Equal(t, "", EmptyAddress().String())
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr := MustNewAddress("12 MG Road", "Bengaluru", "Karnataka", "560001")
	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))
}

func TestAddressScan(t *testing.T) {
	t.Run("nil becomes empty", func(t *testing.T) {
		var addr Address
		require.NoError(t, addr.Scan(nil))
		assert.True(t, addr.IsEmpty())
	})

	t.Run("scans JSON bytes", func(t *testing.T) {
		var addr Address
		require.NoError(t, addr.Scan([]byte(`{"line":"12 MG Road","city":"Bengaluru","state":"Karnataka","pincode":"560001"}`)))
		assert.Equal(t, "Bengaluru", addr.City())
	})
}
