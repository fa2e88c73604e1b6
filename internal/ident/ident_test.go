package ident

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		segments []string
		wantErr  error
	}{
		{"single segment", "Athena", []string{"Athena"}, nil},
		{"nested", "Athena::Validator::Violation", []string{"Athena", "Validator", "Violation"}, nil},
		{"trims whitespace", "  A::B ", []string{"A", "B"}, nil},
		{"empty", "", nil, ErrEmptySegment},
		{"leading separator", "::A", nil, ErrEmptySegment},
		{"trailing separator", "A::", nil, ErrEmptySegment},
		{"double separator", "A::::B", nil, ErrEmptySegment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.segments, id.Segments())
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"A", "A::B", "Athena::Framework::Controller::ValueResolvers", "Foo(T)::Bar"} {
		id, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, id.String())

		again, err := Parse(id.String())
		require.NoError(t, err)
		assert.True(t, id.Equal(again))
	}
}

func TestPagePath(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"A::B::C", "B/C/index.md"},
		{"Athena::Validator::Violation", "Validator/Violation/index.md"},
		{"Athena::Config", "Config/index.md"},
		{"Athena", "index.md"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.id).PagePath())
		})
	}
}

func TestPagePathDistinct(t *testing.T) {
	ids := []string{"A::B", "A::B::C", "A::BC", "A::B::C::D", "A::C::B"}
	seen := map[string]string{}
	for _, s := range ids {
		p := MustParse(s).PagePath()
		if prev, ok := seen[p]; ok {
			t.Fatalf("%s and %s both map to %s", prev, s, p)
		}
		seen[p] = s
	}
}

func TestAliasesPath(t *testing.T) {
	p, err := MustParse("Athena::Validator::Annotations").AliasesPath()
	require.NoError(t, err)
	assert.Equal(t, "Validator/aliases.md", p)

	_, err = MustParse("String").AliasesPath()
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestAccessors(t *testing.T) {
	id := MustParse("Athena::Validator::Violation")
	assert.Equal(t, 3, id.Len())
	assert.Equal(t, "Athena", id.Root())
	assert.Equal(t, "Violation", id.Name())
	assert.Equal(t, "Validator", id.Segment(1))
	assert.Equal(t, "", id.Segment(7))

	child, err := id.Child("Builder")
	require.NoError(t, err)
	assert.Equal(t, "Athena::Validator::Violation::Builder", child.String())

	_, err = id.Child("")
	assert.ErrorIs(t, err, ErrEmptySegment)

	// Segments returns a copy.
	segs := id.Segments()
	segs[0] = "Changed"
	assert.Equal(t, "Athena", id.Root())
}

func TestNew(t *testing.T) {
	id, err := New("A", "B")
	require.NoError(t, err)
	assert.Equal(t, "A::B", id.String())

	_, err = New()
	assert.ErrorIs(t, err, ErrEmptySegment)
	_, err = New("A::B")
	assert.ErrorIs(t, err, ErrEmptySegment)
}

func TestTextMarshaling(t *testing.T) {
	var got struct {
		ID ID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"Athena::Console"}`), &got))
	assert.Equal(t, "Athena::Console", got.ID.String())

	out, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"Athena::Console"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"id":"::"}`), &got))
}
