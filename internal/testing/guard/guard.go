package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("BOOKHAVEN_TEST_MODE") == "" {
			_ = os.Setenv("BOOKHAVEN_TEST_MODE", "1")
		}
	})
}
