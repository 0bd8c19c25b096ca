package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SPEDLENS_TEST_MODE") == "" {
			_ = os.Setenv("SPEDLENS_TEST_MODE", "1")
		}
	})
}
