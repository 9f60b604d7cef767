package wait

import (
	"sync/atomic"
	"testing"

	"github.com/imapcore/imapcore/async"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestGroup(t *testing.T) {
	defer goleak.VerifyNone(t)

	var (
		wg    Group
		count int32
	)

	for i := 0; i < 10; i++ {
		wg.Go(func() { atomic.AddInt32(&count, 1) })
	}

	wg.Wait()

	require.Equal(t, int32(10), atomic.LoadInt32(&count))
}

func TestGroupRecoversPanics(t *testing.T) {
	defer goleak.VerifyNone(t)

	wg := Group{PanicHandler: async.LogPanicHandler{}}

	wg.Go(func() { panic("boom") })
	wg.Wait()
}
