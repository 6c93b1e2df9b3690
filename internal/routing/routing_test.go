package routing_test

import (
	"sync"
	"testing"

	"github.com/serroba/golinks/internal/routing"
	"github.com/serroba/golinks/internal/slug"
	"github.com/stretchr/testify/assert"
)

func TestConfig(t *testing.T) {
	t.Run("first entry is primary", func(t *testing.T) {
		cfg := routing.NewConfig([]string{"go", "pdf"})

		assert.Equal(t, "go", cfg.Primary())
	})

	t.Run("contains checks membership", func(t *testing.T) {
		cfg := routing.NewConfig([]string{"go", "pdf"})

		assert.True(t, cfg.Contains("pdf"))
		assert.False(t, cfg.Contains("img"))
	})

	t.Run("empty set falls back to default", func(t *testing.T) {
		cfg := routing.NewConfig(nil)

		assert.Equal(t, []string{slug.DefaultBasePath}, cfg.Paths())
	})

	t.Run("paths returns a copy", func(t *testing.T) {
		cfg := routing.NewConfig([]string{"go"})

		paths := cfg.Paths()
		paths[0] = "mutated"

		assert.Equal(t, "go", cfg.Primary())
	})
}

func TestProvider(t *testing.T) {
	t.Run("swap publishes the new snapshot", func(t *testing.T) {
		p := routing.NewProvider(routing.NewConfig([]string{"go"}))

		p.Swap(routing.NewConfig([]string{"pdf", "img"}))

		assert.Equal(t, "pdf", p.Current().Primary())
	})

	t.Run("readers always see a complete snapshot", func(t *testing.T) {
		p := routing.NewProvider(routing.NewConfig([]string{"go"}))

		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for j := 0; j < 1000; j++ {
					cfg := p.Current()
					assert.NotEmpty(t, cfg.Paths())
					assert.Equal(t, cfg.Paths()[0], cfg.Primary())
				}
			}()
		}

		for j := 0; j < 1000; j++ {
			p.Swap(routing.NewConfig([]string{"go", "pdf"}))
			p.Swap(routing.NewConfig([]string{"img"}))
		}

		wg.Wait()
	})
}
