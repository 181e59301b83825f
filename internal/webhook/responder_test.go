package webhook

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAckResponderSingleWrite(t *testing.T) {
	rr := httptest.NewRecorder()
	ack := newAckResponder(rr)

	ack.Accept()
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.True(t, rr.Flushed)

	// Later status writes are dropped once the ack is out.
	require.False(t, ack.WriteStatus(http.StatusInternalServerError))
	require.Equal(t, http.StatusAccepted, rr.Code)

	ack.Accept()
	require.Equal(t, http.StatusAccepted, rr.Code)
}

func TestAckResponderWriteStatusBeforeAck(t *testing.T) {
	rr := httptest.NewRecorder()
	ack := newAckResponder(rr)

	require.True(t, ack.WriteStatus(http.StatusForbidden))
	require.Equal(t, http.StatusForbidden, rr.Code)

	// The response is final after the first write.
	ack.Accept()
	require.Equal(t, http.StatusForbidden, rr.Code)
}
