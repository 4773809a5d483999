package db

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileJSON_ValidSections(t *testing.T) {
	p := &Profile{UserID: uuid.New()}
	education := []byte(`[{"degree": "BSc", "field": "CS", "institution": "MIT"}]`)
	work := []byte(`[{"title": "Engineer", "company": "Acme", "description": "Built things"}]`)

	parseProfileJSON(p, education, work)

	require.Len(t, p.Education, 1)
	assert.Equal(t, "BSc", p.Education[0].Degree)
	require.Len(t, p.WorkExperience, 1)
	assert.Equal(t, "Acme", p.WorkExperience[0].Company)
}

func TestParseProfileJSON_MalformedSectionIsLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	p := &Profile{UserID: uuid.New()}
	work := []byte(`[{"title": "Engineer", "company": "Acme"}]`)

	parseProfileJSON(p, []byte(`{not json`), work)

	assert.Empty(t, p.Education, "malformed section stays empty")
	require.Len(t, p.WorkExperience, 1, "other sections still parse")
	assert.Contains(t, buf.String(), "failed to parse education JSON")
	assert.Contains(t, buf.String(), p.UserID.String())
}

func TestParseProfileJSON_NilSectionsAreSilent(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	p := &Profile{UserID: uuid.New()}
	parseProfileJSON(p, nil, nil)

	assert.Empty(t, p.Education)
	assert.Empty(t, p.WorkExperience)
	assert.Empty(t, buf.String())
}
