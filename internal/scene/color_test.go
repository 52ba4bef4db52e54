package scene

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestHex(t *testing.T) {
	white, err := Hex("#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, white.R, 1e-12)
	assert.InDelta(t, 1.0, white.G, 1e-12)
	assert.InDelta(t, 1.0, white.B, 1e-12)

	// sRGB mid gray is darker once linearized.
	gray, err := Hex("#808080")
	require.NoError(t, err)
	assert.InDelta(t, 0.2158, gray.R, 1e-3)

	_, err = Hex("white")
	assert.Error(t, err)
}

func TestColorUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		json string
		want Color
	}{
		{"list", "[0.1, 0.2, 0.3]", "[0.1, 0.2, 0.3]", Color{R: 0.1, G: 0.2, B: 0.3}},
		{"map", "{r: 0.5, g: 0.25, b: 1}", `{"r": 0.5, "g": 0.25, "b": 1}`, Color{R: 0.5, G: 0.25, B: 1}},
		{"hex", `"#000000"`, `"#000000"`, Color{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromYAML Color
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &fromYAML))
			assert.Equal(t, tt.want, fromYAML)

			var fromJSON Color
			require.NoError(t, json.Unmarshal([]byte(tt.json), &fromJSON))
			assert.Equal(t, tt.want, fromJSON)
		})
	}

	var c Color
	assert.Error(t, yaml.Unmarshal([]byte("[1, 2, 3, 4]"), &c))
	assert.Error(t, json.Unmarshal([]byte(`"#12"`), &c))
}

func TestColorUnknownChannel(t *testing.T) {
	var c Color
	assert.ErrorContains(t, yaml.Unmarshal([]byte("{r: 1, g: 1, blue: 1}"), &c), `"blue"`)
	assert.ErrorContains(t, json.Unmarshal([]byte(`{"r": 1, "g": 1, "blue": 1}`), &c), `"blue"`)

	// Missing channels stay zero.
	require.NoError(t, yaml.Unmarshal([]byte("{g: 0.5}"), &c))
	assert.Equal(t, Color{G: 0.5}, c)
}
