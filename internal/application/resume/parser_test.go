package resume

import (
	"context"
	"errors"
	"testing"

	"github.com/careers-intake-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
Senior Backend Engineer at Acme Corp, 6 years experience
Skills: Go, Python, SQL, Docker, Kubernetes, AWS
B.Tech in Computer Science, State University
`

func TestParse_PlainText(t *testing.T) {
	p := NewParser()
	text, fields, err := p.Parse(context.Background(), []byte(sampleResume), "text/plain")

	require.NoError(t, err)
	assert.Equal(t, sampleResume, text)
	assert.Contains(t, fields.Skills, "go")
	assert.Contains(t, fields.Skills, "docker")
	assert.NotEmpty(t, fields.Experience)
	assert.NotEmpty(t, fields.Education)
}

func TestParse_PlainTextWithCharset(t *testing.T) {
	p := NewParser()
	_, _, err := p.Parse(context.Background(), []byte("hello"), "text/plain; charset=utf-8")
	require.NoError(t, err)
}

func TestParse_UnsupportedType(t *testing.T) {
	p := NewParser()
	_, _, err := p.Parse(context.Background(), []byte{0xff}, "image/png")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest), "unsupported types must be distinguishable")
}

func TestParse_CorruptPDF(t *testing.T) {
	p := NewParser()
	_, _, err := p.Parse(context.Background(), []byte("not a pdf"), "application/pdf")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCollaborator))
}

func TestExtractFields_Deterministic(t *testing.T) {
	a := extractFields(sampleResume)
	b := extractFields(sampleResume)
	assert.Equal(t, a, b)
}
