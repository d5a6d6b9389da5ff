package cmdutil

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallNums(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "3", want: []int{3}},
		{name: "list", input: "4,0,2", want: []int{0, 2, 4}},
		{name: "range", input: "5-7", want: []int{5, 6, 7}},
		{name: "overlap", input: "1-3, 2 ,3", want: []int{1, 2, 3}},
		{name: "trailing comma", input: "1,", want: []int{1}},
		{name: "negative", input: "-1", wantErr: true},
		{name: "reversed range", input: "7-5", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCallNums(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlagPrecedence(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("test.output", "yaml")
	viper.Set("test.ports", []int{5070})
	viper.Set("test.show_all", true)

	assert.Equal(t, "json", GetStringConfig("test.output", "json"))
	assert.Equal(t, "yaml", GetStringConfig("test.output", ""))

	assert.Equal(t, []int{5060}, GetIntSliceConfig("test.ports", []int{5060}))
	assert.Equal(t, []int{5070}, GetIntSliceConfig("test.ports", nil))

	assert.True(t, GetBoolConfig("test.show_all", false))
	assert.False(t, GetBoolConfig("test.unset", false))
}
