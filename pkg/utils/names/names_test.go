package names_test

import (
	"testing"

	"github.com/devantler-tech/gcping/pkg/utils/names"
	"github.com/stretchr/testify/assert"
)

func TestDNSLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"lowercase letters", "fsn1", "fsn1"},
		{"uppercase letters normalized", "GCPING", "gcping"},
		{"spaces become hyphens", "edge ping", "edge-ping"},
		{"special characters become hyphens", "us.east/1", "us-east-1"},
		{"consecutive specials collapse to single hyphen", "edge...ping", "edge-ping"},
		{"leading and trailing specials trimmed", "..edge..", "edge"},
		{"underscores become hyphens", "my_project", "my-project"},
		{"unicode characters become hyphens", "zürich", "z-rich"},
		{"single special becomes empty", ".", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, test.expected, names.DNSLabel(test.input))
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "demo-fsn1", names.Join("demo", "fsn1"))
	assert.Equal(t, "my-project-hel1-ping", names.Join("My_Project", "hel1", "ping"))
	assert.Equal(t, "fsn1", names.Join("", "fsn1"))
}
