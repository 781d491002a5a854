package source

import (
	"bytes"
	"testing"
	"time"

	"github.com/huangsam/skillspot/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintSourceStatus(t *testing.T) {
	t.Run("empty source", func(t *testing.T) {
		var buf bytes.Buffer
		PrintSourceStatus(&buf, schema.SourceStatus{Backend: "sqlite"})
		assert.Contains(t, buf.String(), "Source Backend: sqlite")
		assert.Contains(t, buf.String(), "run 'skillspot load' first")
		assert.NotContains(t, buf.String(), "Postings")
	})

	t.Run("loaded source", func(t *testing.T) {
		var buf bytes.Buffer
		PrintSourceStatus(&buf, schema.SourceStatus{
			Backend:   "postgresql",
			Version:   "b1c2",
			LoadedAt:  time.Date(2024, 5, 1, 8, 30, 0, 0, time.Local),
			Jobs:      120,
			Companies: 7,
			Skills:    35,
		})
		out := buf.String()
		assert.Contains(t, out, "Data Version: b1c2")
		assert.Contains(t, out, "Loaded At: 2024-05-01 08:30:00")
		assert.Contains(t, out, "Postings: 120")
		assert.Contains(t, out, "Companies: 7")
		assert.Contains(t, out, "Skills: 35")
	})
}
