package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeError(t *testing.T) {
	cause := errors.New("short buffer")
	err := Decode("stake account state", cause)
	assert.Equal(t, "failed to decode stake account state: short buffer", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestRejectionDetails(t *testing.T) {
	err := Reject("insufficient balance", "have", "1", "requested", "2")
	assert.Equal(t, "insufficient balance (have=1, requested=2)", err.Error())
	assert.Equal(t, "1", err.Detail("have"))
	assert.Equal(t, "", err.Detail("absent"))

	bare := Reject("amount must be greater than zero")
	assert.Equal(t, "amount must be greater than zero", bare.Error())
}

func TestGatewayAndSubmissionUnwrap(t *testing.T) {
	cause := errors.New("connection refused")

	gw := Gateway("getBalance", cause)
	assert.Equal(t, "gateway getBalance: connection refused", gw.Error())
	require.ErrorIs(t, gw, cause)

	sub := Submission("abc123", cause)
	assert.Contains(t, sub.Error(), "abc123")
	require.ErrorIs(t, sub, cause)

	anon := Submission("", cause)
	assert.Equal(t, "transaction submission failed: connection refused", anon.Error())
}
