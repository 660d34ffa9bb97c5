package seed

import (
	"testing"

	"quiz-seed/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(batches []Batch) []string {
	out := make([]string, len(batches))
	for i, b := range batches {
		out[i] = b.Name
	}
	return out
}

func TestPlan_Order(t *testing.T) {
	tests := []struct {
		name    string
		batches []Batch
		groups  []string
		want    []string
	}{
		{
			name:    "declaration order without dependencies",
			batches: []Batch{{Name: "a"}, {Name: "b"}, {Name: "c"}},
			want:    []string{"a", "b", "c"},
		},
		{
			name: "dependencies first, earliest declared among ready",
			batches: []Batch{
				{Name: "symfony-forms", DependsOn: []string{"base"}},
				{Name: "php-basics", DependsOn: []string{"base"}},
				{Name: "extra"},
				{Name: "base"},
			},
			want: []string{"extra", "base", "symfony-forms", "php-basics"},
		},
		{
			name: "diamond",
			batches: []Batch{
				{Name: "d", DependsOn: []string{"b", "c"}},
				{Name: "c", DependsOn: []string{"a"}},
				{Name: "b", DependsOn: []string{"a"}},
				{Name: "a"},
			},
			want: []string{"a", "c", "b", "d"},
		},
		{
			name: "group selection pulls in transitive dependencies",
			batches: []Batch{
				{Name: "base", Groups: []string{"base"}},
				{Name: "categories", DependsOn: []string{"base"}},
				{Name: "questions", DependsOn: []string{"categories"}, Groups: []string{"questions"}},
				{Name: "unrelated", Groups: []string{"demo"}},
			},
			groups: []string{"questions"},
			want:   []string{"base", "categories", "questions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planned, err := Plan(tt.batches, tt.groups)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(planned))
		})
	}
}

func TestPlan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		batches []Batch
		groups  []string
		wantMsg string
	}{
		{
			name:    "unknown dependency",
			batches: []Batch{{Name: "questions", DependsOn: []string{"categories"}}},
			wantMsg: `batch "questions" depends on unknown batch "categories"`,
		},
		{
			name:    "duplicate name",
			batches: []Batch{{Name: "base"}, {Name: "base"}},
			wantMsg: `batch "base" is declared twice`,
		},
		{
			name:    "empty name",
			batches: []Batch{{Name: "base"}, {Name: " "}},
			wantMsg: "batch #2 has no name",
		},
		{
			name: "cycle",
			batches: []Batch{
				{Name: "base"},
				{Name: "a", DependsOn: []string{"b"}},
				{Name: "b", DependsOn: []string{"a"}},
			},
			wantMsg: "dependency cycle among batches: a, b",
		},
		{
			name:    "self dependency",
			batches: []Batch{{Name: "a", DependsOn: []string{"a"}}},
			wantMsg: "dependency cycle among batches: a",
		},
		{
			name:    "unknown group",
			batches: []Batch{{Name: "a", Groups: []string{"base"}}},
			groups:  []string{"questoins"},
			wantMsg: `no batch is tagged with group "questoins"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planned, err := Plan(tt.batches, tt.groups)
			assert.Nil(t, planned)
			assert.True(t, domain.IsConfigurationError(err), "got %v", err)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}
