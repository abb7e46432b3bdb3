package num_test

import (
	"testing"

	"code.ballastprotocol.io/ballast/types/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalConstructors(t *testing.T) {
	assert.True(t, num.DecimalZero().IsZero())
	assert.Equal(t, "1", num.DecimalOne().String())
	assert.Equal(t, "-1500", num.DecimalFromInt(num.NewInt(-1500)).String())
	assert.Equal(t, "1500", num.DecimalFromInt64(1500).String())

	d, err := num.DecimalFromString("0.5")
	require.NoError(t, err)
	assert.Equal(t, "0.5", d.String())

	_, err = num.DecimalFromString("not a decimal")
	require.Error(t, err)

	assert.Equal(t, "0.25", num.MustDecimalFromString("0.25").String())
}

func TestDecimalMinMax(t *testing.T) {
	var (
		small  = num.MustDecimalFromString("1.5")
		larger = num.MustDecimalFromString("2.5")
	)
	assert.Equal(t, larger, num.MaxD(small, larger))
	assert.Equal(t, small, num.MinD(small, larger))
	assert.True(t, num.MaxDecimal().Equal(num.MaxUint().ToDecimal()))
}
