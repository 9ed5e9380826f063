package kashier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignKnownVector(t *testing.T) {
	msg := OrderMessage("MID1", "10.00", "EGP", "ORD1")
	require.Equal(t, "MID110.00EGPORD1", msg)

	got := Sign(msg, []byte("testsecret"))
	require.Equal(t, "97dadb453314d1709567568a14daea1f544809e3b7880c387d7799d4dd0362e1", got)
}

func TestSignDeterministic(t *testing.T) {
	a := Sign("payload", []byte("key"))
	b := Sign("payload", []byte("key"))
	require.Equal(t, a, b)
}

func TestSignSensitiveToSingleByte(t *testing.T) {
	base := Sign("MID110.00EGPORD1", []byte("testsecret"))
	require.NotEqual(t, base, Sign("MID110.00EGPORD2", []byte("testsecret")))
	require.NotEqual(t, base, Sign("MID110.00EGPORD1", []byte("testsecreT")))
}

func TestNotificationMessageJoinsWithPipes(t *testing.T) {
	msg := NotificationMessage("ORD1", "10.00", "EGP", "MID1", "TX9", "SUCCESS")
	require.Equal(t, "ORD1|10.00|EGP|MID1|TX9|SUCCESS", msg)
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "5.00", FormatAmount(5))
	require.Equal(t, "5.10", FormatAmount(5.1))
	require.Equal(t, "6.00", FormatAmount(5.999))
	require.Equal(t, "150.00", FormatAmount(150))
	require.Equal(t, "0.01", FormatAmount(0.005))
}
