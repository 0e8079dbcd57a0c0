package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		in   string
		want Template
	}{
		{"heart", TemplateHeart},
		{"HEART", TemplateHeart},
		{" flower ", TemplateFlower},
		{"saturn", TemplateSaturnRings},
		{"saturn-rings", TemplateSaturnRings},
		{"fireworks", TemplateFireworks},
	}
	for _, tt := range tests {
		got, err := ParseTemplate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseTemplate("cube")
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestTemplateStringRoundTrip(t *testing.T) {
	for _, tmpl := range Templates() {
		got, err := ParseTemplate(tmpl.String())
		require.NoError(t, err)
		assert.Equal(t, tmpl, got)
	}
	assert.Equal(t, "template(7)", Template(7).String())
}

func TestTemplateNextWraps(t *testing.T) {
	assert.Equal(t, TemplateFlower, TemplateHeart.Next())
	assert.Equal(t, TemplateHeart, TemplateFireworks.Next())
}

func TestParticleSetValidate(t *testing.T) {
	ps := ParticleSet{{1, 2, 3}, {4, 5, 6}}
	assert.NoError(t, ps.Validate(2))
	assert.ErrorIs(t, ps.Validate(3), ErrBufferSizeMismatch)

	ps[1].Y = math.NaN()
	assert.ErrorIs(t, ps.Validate(2), ErrNonFinite)

	ps[1].Y = math.Inf(1)
	assert.ErrorIs(t, ps.Validate(2), ErrNonFinite)
}

func TestParticleSetCloneIsIndependent(t *testing.T) {
	ps := ParticleSet{{1, 1, 1}}
	cp := ps.Clone()
	cp[0].X = 9
	assert.Equal(t, 1.0, ps[0].X)
}
