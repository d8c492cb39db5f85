package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/nphdash/internal/model"
)

func TestSplitIsDisjointAndComplete(t *testing.T) {
	tests := []struct {
		name string
		in   []model.Meta
	}{
		{name: "empty", in: nil},
		{name: "all active", in: []model.Meta{{ID: 1, Status: "A"}, {ID: 2, Status: "A"}}},
		{name: "all inactive", in: []model.Meta{{ID: 1, Status: "I"}}},
		{name: "mixed", in: []model.Meta{{ID: 1, Status: "A"}, {ID: 2, Status: "I"}, {ID: 3, Status: "A"}}},
		{name: "unknown status", in: []model.Meta{{ID: 1, Status: "X"}, {ID: 2, Status: ""}, {ID: 3, Status: "A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Split(tt.in)

			seen := make(map[int64]int)
			for _, m := range p.Active() {
				assert.True(t, m.Status.IsActive())
				seen[m.ID]++
			}
			for _, m := range p.Inactive() {
				assert.False(t, m.Status.IsActive())
				seen[m.ID]++
			}

			assert.Equal(t, len(tt.in), p.Len())
			for _, m := range tt.in {
				assert.Equal(t, 1, seen[m.ID], "id %d must land in exactly one list", m.ID)
			}
		})
	}
}

func TestSplitKeepsOrder(t *testing.T) {
	p := Split([]model.Section{
		{ID: 3, Status: "A"}, {ID: 1, Status: "I"}, {ID: 2, Status: "A"}, {ID: 5, Status: "I"},
	})
	assert.Equal(t, []int64{3, 2}, sectionIDs(p.Active()))
	assert.Equal(t, []int64{1, 5}, sectionIDs(p.Inactive()))
}

func TestPartitionFind(t *testing.T) {
	p := Split([]model.Section{{ID: 1, Status: "A"}, {ID: 2, Status: "I"}})

	s, ok := p.Find(2)
	assert.True(t, ok)
	assert.Equal(t, int64(2), s.ID)

	_, ok = p.Find(9)
	assert.False(t, ok)
}
