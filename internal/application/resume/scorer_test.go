package resume

import (
	"context"
	"strings"
	"testing"

	"github.com/careers-intake-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_DeterministicForIdenticalInputs(t *testing.T) {
	s := NewScorer()
	fields := domain.ParsedResume{Skills: []string{"go", "sql"}, Experience: []string{"x"}}

	a, err := s.Score(context.Background(), fields, sampleResume, "Software Development")
	require.NoError(t, err)
	b, err := s.Score(context.Background(), fields, sampleResume, "Software Development")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScore_WithinBounds(t *testing.T) {
	s := NewScorer()
	texts := []string{
		"",
		sampleResume,
		strings.Repeat(strings.Join(knownSkills, " ")+" experience university ", 10),
	}
	for _, text := range texts {
		fields := extractFields(text)
		got, err := s.Score(context.Background(), fields, text, "Software Development")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestScore_RelevantResumeBeatsIrrelevant(t *testing.T) {
	s := NewScorer()
	relevant, err := s.Score(context.Background(), extractFields(sampleResume), sampleResume, "Software Development")
	require.NoError(t, err)

	offTopic := "I paint landscapes and teach yoga."
	irrelevant, err := s.Score(context.Background(), extractFields(offTopic), offTopic, "Software Development")
	require.NoError(t, err)

	assert.Greater(t, relevant, irrelevant)
}

func TestScore_UnknownCategory_NoKeywordComponent(t *testing.T) {
	s := NewScorer()
	got, err := s.Score(context.Background(), extractFields(sampleResume), sampleResume, "Underwater Basket Weaving")
	require.NoError(t, err)
	assert.LessOrEqual(t, got, 30, "only skills and section completeness can contribute")
}
