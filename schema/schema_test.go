package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterKindStorageKey(t *testing.T) {
	tests := []struct {
		kind CounterKind
		want string
	}{
		{LaunchCounter, "versions"},
		{ReviewPromptCounter, "reviewPromptVersions"},
		{CounterKind("share"), "shareVersions"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.StorageKey())
		})
	}

	assert.NotEqual(t, LaunchCounter.StorageKey(), ReviewPromptCounter.StorageKey(), "kinds must not share keys")
}

func TestVersionCounterMap(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var m VersionCounterMap
		assert.Equal(t, 0, m.Count("1.0.0"))
		assert.Equal(t, 0, m.Total())
		assert.Empty(t, m.Versions())
	})

	t.Run("populated", func(t *testing.T) {
		m := VersionCounterMap{"1.1.0": 1, "1.0.1": 3}
		assert.Equal(t, 3, m.Count("1.0.1"))
		assert.Equal(t, 0, m.Count("2.0.0"))
		assert.Equal(t, 4, m.Total())
		assert.Equal(t, []string{"1.0.1", "1.1.0"}, m.Versions())
	})

	t.Run("clone is independent", func(t *testing.T) {
		m := VersionCounterMap{"1.0.0": 1}
		c := m.Clone()
		c["1.0.0"] = 5
		assert.Equal(t, 1, m["1.0.0"])
	})
}

func TestCounterSummaryRecords(t *testing.T) {
	s := CounterSummary{
		Kind:     LaunchCounter,
		Versions: VersionCounterMap{"2.0": 2, "1.0": 1},
	}
	records := s.Records()
	assert.Equal(t, []CounterRecord{
		{Kind: LaunchCounter, Version: "1.0", Count: 1},
		{Kind: LaunchCounter, Version: "2.0", Count: 2},
	}, records)
}

func TestStoreBackendIsSynchronized(t *testing.T) {
	assert.True(t, MySQLBackend.IsSynchronized())
	assert.True(t, PostgreSQLBackend.IsSynchronized())
	assert.False(t, SQLiteBackend.IsSynchronized())
	assert.False(t, BoltBackend.IsSynchronized())
	assert.False(t, NoneBackend.IsSynchronized())
}

func TestNotificationKeys(t *testing.T) {
	assert.Equal(t, "notSupported", SettingNotSupported.Key())
	assert.Equal(t, "disabled", SettingDisabled.Key())
	assert.Equal(t, "enabled", SettingEnabled.Key())
	assert.Equal(t, "authorized", AuthorizationAuthorized.Key())
	assert.Equal(t, "denied", AuthorizationDenied.Key())
	assert.Equal(t, "notDetermined", AuthorizationNotDetermined.Key())
	assert.Equal(t, "alert", AlertStyleAlert.Key())
	assert.Equal(t, "banner", AlertStyleBanner.Key())
	assert.Equal(t, "none", AlertStyleNone.Key())

	settings := NotificationSettings{
		Authorization: AuthorizationAuthorized,
		Alert:         SettingEnabled,
		AlertStyle:    AlertStyleBanner,
		Badge:         SettingDisabled,
	}
	d := settings.Dictionary()
	assert.Len(t, d, 8)
	assert.Equal(t, "authorized", d["authorization"])
	assert.Equal(t, "banner", d["alertStyle"])
	assert.Equal(t, "disabled", d["badge"])
	assert.Equal(t, "notSupported", d["carPlay"])
}
