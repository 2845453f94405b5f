package registry_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/llm/echo"
	"github.com/davidbz/ember/internal/llm/registry"
)

// namedBackend is a minimal Backend for testing.
type namedBackend struct {
	name string
}

func (b *namedBackend) Name() string { return b.name }

func (b *namedBackend) Suite() domain.Models { return domain.Models{} }

func TestRegistry_Register(t *testing.T) {
	t.Run("should register backend successfully", func(t *testing.T) {
		reg := registry.NewRegistry()

		require.NoError(t, reg.Register(echo.NewModels()))

		registered, err := reg.Get("echo")
		require.NoError(t, err)
		require.Equal(t, "echo", registered.Name())
	})

	t.Run("should return error when backend is nil", func(t *testing.T) {
		err := registry.NewRegistry().Register(nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "backend cannot be nil")
	})

	t.Run("should return error when backend name is empty", func(t *testing.T) {
		err := registry.NewRegistry().Register(&namedBackend{name: ""})
		require.Error(t, err)
		require.Contains(t, err.Error(), "backend name cannot be empty")
	})

	t.Run("should return error when backend already registered", func(t *testing.T) {
		reg := registry.NewRegistry()

		require.NoError(t, reg.Register(&namedBackend{name: "dup"}))
		err := reg.Register(&namedBackend{name: "dup"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "already registered")
	})
}

func TestRegistry_Get(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(&namedBackend{name: "openai"}))

	_, err := reg.Get("")
	require.Error(t, err)

	_, err = reg.Get("llama")
	require.Error(t, err)
	require.Contains(t, err.Error(), "[openai]")
}

func TestRegistry_Suite(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(echo.NewModels()))

	suite, err := reg.Suite("echo")
	require.NoError(t, err)
	require.NotNil(t, suite.Responder)
	require.NotNil(t, suite.Grader)

	_, err = reg.Suite("openai")
	require.Error(t, err)
}

func TestRegistry_List(t *testing.T) {
	reg := registry.NewRegistry()
	require.Empty(t, reg.List())

	require.NoError(t, reg.Register(&namedBackend{name: "openai"}))
	require.NoError(t, reg.Register(&namedBackend{name: "echo"}))

	require.Equal(t, []string{"echo", "openai"}, reg.List())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(&namedBackend{name: "echo"}))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = reg.Get("echo")
			_ = reg.List()
		}()
	}
	wg.Wait()
}
