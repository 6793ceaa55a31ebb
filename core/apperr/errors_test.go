package apperr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteError_Is(t *testing.T) {
	err := fmt.Errorf("fetch ModPack.zip: %w", &RemoteError{Status: 404, Reason: "Not Found"})

	assert.True(t, errors.Is(err, ErrRemote))
	assert.False(t, errors.Is(err, ErrNetworkTimeout))

	var re *RemoteError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, 404, re.Status)
	assert.Contains(t, err.Error(), "404 Not Found")
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Op: "connect", Hint: "check VPN/connectivity"}

	assert.True(t, errors.Is(err, ErrNetworkTimeout))
	assert.Equal(t, "timeout during connect (check VPN/connectivity)", err.Error())
}

func TestIO(t *testing.T) {
	assert.NoError(t, IO("remove", "a.jar", nil))

	err := IO("remove", "a.jar", os.ErrPermission)
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, os.ErrPermission))
	assert.Contains(t, err.Error(), "remove a.jar")
}

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled(fmt.Errorf("download: %w", ErrCancelled)))
	assert.False(t, IsCancelled(ErrIO))
	assert.False(t, IsCancelled(nil))
}
