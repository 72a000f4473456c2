package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSchemaProvider_CoversEveryDefault(t *testing.T) {
	mgr := &Manager{viper: viper.New()}
	mgr.setDefaults()

	schema := NewSchemaProvider().GetSchema()
	documented := make(map[string]bool, len(schema))
	for _, k := range schema {
		assert.NotEmpty(t, k.Description, k.Key)
		assert.NotEmpty(t, k.Section, k.Key)
		assert.False(t, documented[k.Key], "duplicate key %s", k.Key)
		documented[k.Key] = true
	}

	for _, key := range mgr.viper.AllKeys() {
		assert.True(t, documented[key], "undocumented key %s", key)
	}
}

func TestSchemaProvider_SectionsMatchKeyPrefix(t *testing.T) {
	for _, k := range NewSchemaProvider().GetSchema() {
		prefix, _, _ := strings.Cut(k.Key, ".")
		assert.Equal(t, strings.ToLower(k.Section), prefix, k.Key)
	}
}
