package netutil

import (
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newGauges() (prometheus.Gauge, prometheus.Gauge, prometheus.Gauge) {
	return prometheus.NewGauge(prometheus.GaugeOpts{Name: "max"}),
		prometheus.NewGauge(prometheus.GaugeOpts{Name: "concurrent"}),
		prometheus.NewGauge(prometheus.GaugeOpts{Name: "waiting"})
}

func TestSharedLimitListener(t *testing.T) {
	max, concurrent, waiting := newGauges()
	limiter := NewLimiter(1, max, concurrent, waiting)
	require.Equal(t, float64(1), testutil.ToFloat64(max))

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	limited := SharedLimitListener(l, limiter)
	defer limited.Close()

	accepted := make(chan net.Conn)
	go func() {
		for {
			c, err := limited.Accept()
			if err != nil {
				close(accepted)
				return
			}
			accepted <- c
		}
	}()

	first, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer first.Close()

	conn := <-accepted
	require.Equal(t, float64(1), testutil.ToFloat64(concurrent))

	second, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer second.Close()

	// the second connection waits for the first to be released
	select {
	case <-accepted:
		t.Fatal("accepted a connection over the limit")
	case <-time.After(100 * time.Millisecond):
	}
	require.Equal(t, float64(1), testutil.ToFloat64(waiting))

	require.NoError(t, conn.Close())
	// closing twice releases the slot once
	conn.Close()

	select {
	case c := <-accepted:
		require.NoError(t, c.Close())
	case <-time.After(5 * time.Second):
		t.Fatal("connection was not accepted after a slot was released")
	}
}

func TestSharedLimitListenerClose(t *testing.T) {
	max, concurrent, waiting := newGauges()
	limiter := NewLimiter(1, max, concurrent, waiting)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	limited := SharedLimitListener(l, limiter)
	require.NoError(t, limited.Close())

	_, err = limited.Accept()
	require.Error(t, err)
	require.Zero(t, testutil.ToFloat64(concurrent))
}
