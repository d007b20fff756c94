package envx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInt(t *testing.T) {
	t.Setenv("ENVX_TEST_A", "")
	t.Setenv("ENVX_TEST_B", "not a number")
	t.Setenv("ENVX_TEST_C", " 42 ")
	require.Equal(t, 7, Int(7, "ENVX_TEST_A", "ENVX_TEST_B"))
	require.Equal(t, 42, Int(7, "ENVX_TEST_A", "ENVX_TEST_B", "ENVX_TEST_C"))
	t.Setenv("ENVX_TEST_D", "-1")
	require.Equal(t, uint32(5), Int(uint32(5), "ENVX_TEST_D"))
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVX_TEST_A", "1m30s")
	t.Setenv("ENVX_TEST_B", "90")
	require.Equal(t, 90*time.Second, Duration(time.Second, "ENVX_TEST_A"))
	require.Equal(t, time.Second, Duration(time.Second, "ENVX_TEST_B", "ENVX_TEST_UNSET"))
}

func TestString(t *testing.T) {
	t.Setenv("ENVX_TEST_A", "value")
	require.Equal(t, "value", String("fallback", "ENVX_TEST_UNSET", "ENVX_TEST_A"))
	require.Equal(t, "fallback", String("fallback"))
}
