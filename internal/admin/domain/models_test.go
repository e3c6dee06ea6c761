package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFieldValidate(t *testing.T) {
	base := CustomField{
		EntityType: EntityContacts,
		FieldName:  "Industry",
	}

	for _, ft := range []FieldType{FieldText, FieldNumber, FieldDate, FieldBoolean} {
		f := base
		f.FieldType = ft
		assert.NoError(t, f.Validate(), "field type %s", ft)
	}

	sel := base
	sel.FieldType = FieldSelect
	assert.Error(t, sel.Validate(), "select without options")
	sel.FieldOptions = []string{"SaaS", "Retail"}
	assert.NoError(t, sel.Validate())

	legacy := base
	legacy.FieldType = "checkbox"
	assert.Error(t, legacy.Validate(), "checkbox is not a wire value")

	missing := base
	missing.FieldName = "  "
	missing.FieldType = FieldText
	assert.Error(t, missing.Validate())

	wrongEntity := base
	wrongEntity.EntityType = "widgets"
	wrongEntity.FieldType = FieldText
	assert.Error(t, wrongEntity.Validate())
}

func TestFieldTypeWireValues(t *testing.T) {
	raw, err := json.Marshal(CustomField{
		EntityType: EntityContacts,
		FieldName:  "VIP",
		FieldType:  FieldBoolean,
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"field_type":"boolean"`)
}

func TestAuthTypeWireValues(t *testing.T) {
	assert.Equal(t, AuthType("traditional"), AuthTypeTraditional)
	assert.Equal(t, AuthType("google"), AuthTypeGoogle)

	raw, err := json.Marshal(User{AuthType: AuthTypeTraditional})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"auth_type":"traditional"`)
}
