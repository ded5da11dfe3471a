package devcollab_test

import (
	"bufio"
	"io"
	"sync"
	"testing"
)

func streamReaderToTestLogs(t *testing.T, prefix string, r io.Reader, wg *sync.WaitGroup) {
	t.Helper()
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			t.Logf("[%s] %s", prefix, scanner.Text())
		}
	}()
}
