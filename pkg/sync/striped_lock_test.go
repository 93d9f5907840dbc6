package sync

import (
	"fmt"
	base "sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripedLock_HappyPath(t *testing.T) {
	workerCount := 64
	operationCount := 10000

	l := NewStripedLock(4)

	var workerWg base.WaitGroup
	startChan := make(chan struct{})
	data := make([]int, workerCount)

	for i := 0; i < workerCount; i++ {
		workerWg.Add(1)

		go func(workerID int) {
			defer workerWg.Done()

			var opWg base.WaitGroup
			key := fmt.Sprintf("market%d", workerID)
			for j := 0; j < operationCount; j++ {
				opWg.Add(1)

				go func() {
					defer opWg.Done()

					<-startChan

					unlock := l.Lock(key)
					data[workerID]++
					unlock()
				}()
			}
			opWg.Wait()
		}(i)
	}

	close(startChan)
	workerWg.Wait()

	for _, val := range data {
		assert.EqualValues(t, operationCount, val)
	}
}

func TestStripedLock_SameKeySameLock(t *testing.T) {
	l := NewStripedLock(16)
	assert.True(t, l.Get("tec") == l.Get("tec"))

	single := NewStripedLock(0)
	assert.True(t, single.Get("a") == single.Get("b"))
}

func TestStripedLock_ReadersShareStripe(t *testing.T) {
	l := NewStripedLock(8)

	unlockFirst := l.RLock("tec")
	unlockSecond := l.RLock("tec")

	// A writer must wait for both readers
	assert.False(t, l.Get("tec").TryLock())

	unlockFirst()
	unlockSecond()

	assert.True(t, l.Get("tec").TryLock())
	l.Get("tec").Unlock()
}
