package internal

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

func GenerateId() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// EnvsFromOs returns the process environment as a map, values from the
// environment override anything already present in envs
func EnvsFromOs(envs map[string]string) map[string]string {
	if envs == nil {
		envs = make(map[string]string)
	}
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	return envs
}

// LaunchContext returns a context that is cancelled once a signal is
// received on osSignal (or the returned cancel function is called)
func LaunchContext(wg *sync.WaitGroup, osSignal chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()

		close(started)
		select {
		case <-ctx.Done():
		case <-osSignal:
		}
	}()
	<-started
	return ctx, cancel
}
