package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_Order(t *testing.T) {
	assert.Equal(t, []Category{
		CategoryOperations,
		CategoryResidentSupport,
		CategoryFinance,
		CategoryLeasing,
	}, Categories())
}

func TestCategory_IsKnown(t *testing.T) {
	tests := []struct {
		category Category
		expected bool
	}{
		{CategoryOperations, true},
		{CategoryResidentSupport, true},
		{CategoryFinance, true},
		{CategoryLeasing, true},
		{Category("operations"), false},
		{Category(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.IsKnown())
		})
	}
}

func TestSOP_Validate(t *testing.T) {
	valid := SOP{
		ID:       "1",
		Title:    "Emergency Maintenance Request",
		Category: CategoryOperations,
		Steps:    []Step{{Text: "Assess severity"}},
	}
	require.NoError(t, valid.Validate())

	t.Run("missing title", func(t *testing.T) {
		s := valid
		s.Title = "   "
		err := s.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Contains(t, err.Error(), "title")
	})

	t.Run("unknown category", func(t *testing.T) {
		s := valid
		s.Category = "Marketing"
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Marketing")
	})

	t.Run("empty step", func(t *testing.T) {
		s := valid
		s.Steps = []Step{{Text: "ok"}, {Title: "only a title"}}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "step 2")
	})
}

func TestEscalation_IsZero(t *testing.T) {
	assert.True(t, Escalation{}.IsZero())
	assert.True(t, Escalation{When: " ", Who: "\t"}.IsZero())
	assert.False(t, Escalation{Who: "Maintenance Supervisor"}.IsZero())
}

func TestSOP_HasTag(t *testing.T) {
	s := SOP{Tags: []string{"urgent", "Maintenance"}}
	assert.True(t, s.HasTag("maintenance"))
	assert.False(t, s.HasTag("leasing"))
}

func TestSOP_Clone(t *testing.T) {
	original := SOP{
		ID:                 "1",
		Title:              "Boiler",
		Steps:              []Step{{Text: "Check pressure"}},
		EdgeCases:          []EdgeCase{{Title: "No heat"}},
		Contacts:           []Contact{{Name: "Sam"}},
		ReferenceMaterials: []ReferenceMaterial{{Title: "Manual"}},
		Tags:               []string{"heating"},
	}

	clone := original.Clone()
	clone.Steps[0].Text = "changed"
	clone.EdgeCases[0].Title = "changed"
	clone.Contacts[0].Name = "changed"
	clone.ReferenceMaterials[0].Title = "changed"
	clone.Tags[0] = "changed"

	assert.Equal(t, "Check pressure", original.Steps[0].Text)
	assert.Equal(t, "No heat", original.EdgeCases[0].Title)
	assert.Equal(t, "Sam", original.Contacts[0].Name)
	assert.Equal(t, "Manual", original.ReferenceMaterials[0].Title)
	assert.Equal(t, "heating", original.Tags[0])
}

func TestSOP_CloneKeepsEmptyAndNil(t *testing.T) {
	clone := (&SOP{Steps: []Step{}}).Clone()

	assert.NotNil(t, clone.Steps)
	assert.Empty(t, clone.Steps)
	assert.Nil(t, clone.Tags)
	assert.Nil(t, CloneSOPs(nil))
}
