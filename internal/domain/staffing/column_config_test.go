package staffing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColumnConfig(t *testing.T) {
	companyID := uuid.New()
	clientID := uuid.New()

	t.Run("creates config with reserved columns enforced", func(t *testing.T) {
		cfg, err := NewColumnConfig(companyID, clientID, []ColumnDefinition{
			{Key: "designation", Label: "Designation", Type: ColumnTypeText},
		})
		require.NoError(t, err)

		keys := make([]string, 0, len(cfg.Columns))
		for _, col := range cfg.Columns {
			keys = append(keys, col.Key)
		}
		assert.Contains(t, keys, ColumnCandidateName)
		assert.Contains(t, keys, ColumnAmount)
		assert.Contains(t, keys, "designation")
	})

	t.Run("rejects nil client", func(t *testing.T) {
		_, err := NewColumnConfig(companyID, uuid.Nil, nil)
		assert.Error(t, err)
	})
}

func TestColumnConfigSetColumns(t *testing.T) {
	companyID := uuid.New()
	clientID := uuid.New()
	cfg, err := NewColumnConfig(companyID, clientID, DefaultColumnDefinitions())
	require.NoError(t, err)

	t.Run("rejects duplicate keys", func(t *testing.T) {
		err := cfg.SetColumns([]ColumnDefinition{
			{Key: "skill", Type: ColumnTypeText},
			{Key: "SKILL", Type: ColumnTypeText},
		})
		assert.Error(t, err)
	})

	t.Run("accepts every supported column type", func(t *testing.T) {
		err := cfg.SetColumns([]ColumnDefinition{
			{Key: "skill", Type: ColumnTypeText},
			{Key: "notice_period", Type: ColumnTypeNumber},
			{Key: "joining_date", Type: ColumnTypeDate},
			{Key: "work_email", Type: ColumnTypeEmail},
			{Key: "mobile", Type: ColumnTypePhone},
		})
		assert.NoError(t, err)
	})

	t.Run("rejects unknown column type", func(t *testing.T) {
		err := cfg.SetColumns([]ColumnDefinition{
			{Key: "skill", Type: ColumnType("blob")},
		})
		assert.Error(t, err)
	})

	t.Run("reserved columns forced required", func(t *testing.T) {
		err := cfg.SetColumns([]ColumnDefinition{
			{Key: ColumnCandidateName, Label: "Name", Type: ColumnTypeText, Required: false},
			{Key: ColumnAmount, Label: "Amount", Type: ColumnTypeNumber, Required: false},
		})
		require.NoError(t, err)
		for _, col := range cfg.Columns {
			assert.True(t, col.Required, "column %s must be required", col.Key)
		}
	})

	t.Run("blank label defaults to key", func(t *testing.T) {
		err := cfg.SetColumns([]ColumnDefinition{
			{Key: "skill", Type: ColumnTypeText},
		})
		require.NoError(t, err)
		for _, col := range cfg.Columns {
			if col.Key == "skill" {
				assert.Equal(t, "skill", col.Label)
			}
		}
	})
}

func TestColumnConfigRequiredKeys(t *testing.T) {
	cfg, err := NewColumnConfig(uuid.New(), uuid.New(), []ColumnDefinition{
		{Key: "referrer", Type: ColumnTypeText, Required: true},
		{Key: "notes", Type: ColumnTypeText, Required: false},
	})
	require.NoError(t, err)

	keys := cfg.RequiredKeys()
	assert.Contains(t, keys, "referrer")
	assert.Contains(t, keys, ColumnCandidateName)
	assert.Contains(t, keys, ColumnAmount)
	assert.NotContains(t, keys, "notes")
}
