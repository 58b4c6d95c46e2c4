package version

import (
	"fmt"
	"testing"

	domainErrors "github.com/Tomas-vilte/semrel/internal/errors"
	"github.com/Tomas-vilte/semrel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid tags", func(t *testing.T) {
		tests := []struct {
			in   string
			want Tag
		}{
			{"v0.0.0", Tag{}},
			{"v1.2.3", Tag{Major: 1, Minor: 2, Patch: 3}},
			{"v3.2.1", Tag{Major: 3, Minor: 2, Patch: 1}},
			{"v10.200.3000", Tag{Major: 10, Minor: 200, Patch: 3000}},
			{"v18446744073709551614.0.0", Tag{Major: 18446744073709551614}},
		}
		for _, tt := range tests {
			t.Run(tt.in, func(t *testing.T) {
				got, err := Parse(tt.in)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("rejected shapes", func(t *testing.T) {
		for _, in := range []string{
			"",
			"v",
			"1.2.3",
			"V1.2.3",
			"v1.2",
			"v3.1",
			"v1.2.3.4",
			"v1.2.3-rc.1",
			"v1.2.3+build",
			" v1.2.3",
			"v1.2.3 ",
			"v1.a.3",
			"v-1.2.3",
		} {
			t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
				_, err := Parse(in)
				assert.ErrorIs(t, err, domainErrors.ErrTagShape)
			})
		}
	})

	t.Run("segment overflow", func(t *testing.T) {
		_, err := Parse("v1.18446744073709551616.0")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainErrors.ErrTagSegment)

		var appErr *domainErrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "minor", appErr.Context["segment"])
	})

	t.Run("segment at the increment ceiling", func(t *testing.T) {
		tests := []struct {
			in      string
			segment string
		}{
			{"v18446744073709551615.0.0", "major"},
			{"v1.18446744073709551615.0", "minor"},
			{"v1.2.18446744073709551615", "patch"},
		}
		for _, tt := range tests {
			t.Run(tt.in, func(t *testing.T) {
				_, err := Parse(tt.in)
				require.ErrorIs(t, err, domainErrors.ErrTagSegment)

				var appErr *domainErrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.segment, appErr.Context["segment"])
				assert.Equal(t, "cannot be incremented", appErr.Context["reason"])
			})
		}
	})
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, Tag{Major: 2}, MustParse("v2.0.0"))
	assert.Panics(t, func() { MustParse("2.0.0") })
}

func TestIncrement(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		level models.ReleaseLevel
		want  string
	}{
		{"major resets minor and patch", "v0.1.0", models.Major, "v1.0.0"},
		{"minor resets patch", "v1.0.1", models.Minor, "v1.1.0"},
		{"patch bumps patch only", "v1.2.3", models.Patch, "v1.2.4"},
		{"major from seed", Seed, models.Major, "v1.0.0"},
		{"patch from seed", Seed, models.Patch, "v0.0.1"},
		{"multi digit", "v9.99.999", models.Patch, "v9.99.1000"},
		{"minor after v3.2.1", "v3.2.1", models.Minor, "v3.3.0"},
		{"major after v3.2.1", "v3.2.1", models.Major, "v4.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse(tt.from).Increment(tt.level)
			assert.Equal(t, tt.want, got.String())
		})
	}

	t.Run("invalid level panics", func(t *testing.T) {
		assert.Panics(t, func() { Tag{}.Increment(models.ReleaseLevel(0)) })
	})
}

func TestIncrement_Laws(t *testing.T) {
	samples := []Tag{
		{},
		{Patch: 7},
		{Minor: 3, Patch: 1},
		{Major: 1, Minor: 2, Patch: 3},
		{Major: 42, Minor: 0, Patch: 9},
		{Major: 18446744073709551613, Minor: 18446744073709551614, Patch: 18446744073709551614},
	}

	for _, tag := range samples {
		t.Run(tag.String(), func(t *testing.T) {
			parsed, err := Parse(tag.String())
			require.NoError(t, err)
			assert.Equal(t, tag, parsed, "render then parse must round-trip")

			for _, level := range models.Levels() {
				next := tag.Increment(level)
				assert.True(t, tag.Less(next), "%s must be greater than %s", next, tag)
				assert.Equal(t, 1, next.Compare(tag))
			}

			assert.Equal(t, Tag{Major: tag.Major + 2}, tag.Increment(models.Major).Increment(models.Major))
			assert.Equal(t, uint64(0), tag.Increment(models.Minor).Patch)
			assert.Equal(t, uint64(0), tag.Increment(models.Major).Patch)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"v1.0.0", "v1.0.0", 0},
		{"v1.0.0", "v2.0.0", -1},
		{"v1.10.0", "v1.9.0", 1},
		{"v1.2.3", "v1.2.4", -1},
		{"v2.0.0", "v1.99.99", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.a).Compare(MustParse(tt.b)))
		})
	}
}

func TestNext(t *testing.T) {
	got, err := Next("v1.2.3", models.Minor)
	require.NoError(t, err)
	assert.Equal(t, "v1.3.0", got)

	_, err = Next("1.2.3", models.Minor)
	assert.ErrorIs(t, err, domainErrors.ErrTagShape)

	_, err = Next("v18446744073709551615.0.0", models.Major)
	assert.ErrorIs(t, err, domainErrors.ErrTagSegment)
}

func TestFullApp(t *testing.T) {
	assert.Equal(t, "v"+App, FullApp())
}
