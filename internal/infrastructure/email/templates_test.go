package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thca-multistore/backend/internal/domain/notification"
)

func TestRenderKnownTemplates(t *testing.T) {
	data := SampleData("buyer@example.com", "Liquid Gold")

	for _, info := range Catalog() {
		t.Run(info.ID, func(t *testing.T) {
			html, err := Render(info.ID, data)
			require.NoError(t, err)
			assert.Contains(t, html, "<!doctype html>")
			assert.Contains(t, html, "Liquid Gold")
		})
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("no-such-template", SampleData("a@example.com", ""))
	assert.ErrorIs(t, err, notification.ErrTemplateNotFound)
}

func TestSampleDataDefaults(t *testing.T) {
	data := SampleData("buyer@example.com", "")

	assert.Equal(t, "Test Store", data.StoreName)
	assert.Equal(t, "buyer@example.com", data.CustomerEmail)
	assert.NotZero(t, data.OrderDisplayID)
}

func TestSubject(t *testing.T) {
	data := SampleData("buyer@example.com", "Liquid Gold")

	assert.Equal(t, "Order Confirmation #1001", Subject("order-confirmation", data))
	assert.Equal(t, "Welcome to Liquid Gold!", Subject("customer-welcome", data))
	assert.Equal(t, "Notification", Subject("no-such-template", data))
}

func TestCatalogIsStable(t *testing.T) {
	first := Catalog()
	second := Catalog()
	require.Equal(t, first, second)

	assert.Len(t, first, 8)
	assert.Equal(t, "order-confirmation", first[0].ID)
	for _, info := range first {
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.Type)
		assert.Equal(t, "active", info.Status)
	}
}

func TestHasTemplate(t *testing.T) {
	assert.True(t, HasTemplate("order-shipped"))
	assert.False(t, HasTemplate("order-teleported"))
}
