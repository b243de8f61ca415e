package kdbx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCustomDataSetAndGet(t *testing.T) {
	var cd CustomData
	cd.Set("k1", "v1", nil)

	item, ok := cd.Get("k1")
	require.True(t, ok)
	require.Equal(t, "v1", item.Value)
	require.Nil(t, item.LastModified)
}

func TestCustomDataSetOverwritesExisting(t *testing.T) {
	var cd CustomData
	cd.Set("k1", "v1", nil)
	cd.Set("k1", "v2", nil)

	require.Len(t, cd, 1)
	item, ok := cd.Get("k1")
	require.True(t, ok)
	require.Equal(t, "v2", item.Value)
}

func TestCustomDataGetMissingKey(t *testing.T) {
	var cd CustomData
	_, ok := cd.Get("missing")
	require.False(t, ok)
}

func TestCustomDataWireRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cd := CustomData{
		{Key: "plugin.setting", Value: "enabled", LastModified: &now},
		{Key: "legacy.flag", Value: "1", LastModified: nil},
	}

	wire := customDataToWire(cd)
	back := customDataFromWire(wire)

	require.Len(t, back, 2)
	require.Equal(t, "plugin.setting", back[0].Key)
	require.Equal(t, "enabled", back[0].Value)
	require.NotNil(t, back[0].LastModified)
	require.True(t, now.Equal(*back[0].LastModified))
	require.Nil(t, back[1].LastModified)
}
