// internal/browser/context_utils_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCombineContextPrimaryCancel(t *testing.T) {
	primary, cancelPrimary := context.WithCancel(context.Background())
	secondary, cancelSecondary := context.WithCancel(context.Background())
	defer cancelSecondary()

	combined, cancel := CombineContext(primary, secondary)
	defer cancel()

	cancelPrimary()
	select {
	case <-combined.Done():
	case <-time.After(time.Second):
		t.Fatal("combined context not canceled after primary cancel")
	}
}

func TestCombineContextSecondaryCancel(t *testing.T) {
	primary, cancelPrimary := context.WithCancel(context.Background())
	defer cancelPrimary()
	secondary, cancelSecondary := context.WithCancel(context.Background())

	combined, cancel := CombineContext(primary, secondary)
	defer cancel()

	cancelSecondary()
	select {
	case <-combined.Done():
	case <-time.After(time.Second):
		t.Fatal("combined context not canceled after secondary cancel")
	}
	// The primary is unaffected.
	assert.NoError(t, primary.Err())
}

func TestCombineContextInheritsValues(t *testing.T) {
	type key struct{}
	primary := context.WithValue(context.Background(), key{}, "cdp-target")
	secondary, cancelSecondary := context.WithCancel(context.Background())
	defer cancelSecondary()

	combined, cancel := CombineContext(primary, secondary)
	defer cancel()

	assert.Equal(t, "cdp-target", combined.Value(key{}))
}

func TestDetach(t *testing.T) {
	type key struct{}
	parent, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "v"))

	detached := Detach(parent)
	cancel()

	require.NoError(t, detached.Err())
	assert.Nil(t, detached.Done())
	assert.Equal(t, "v", detached.Value(key{}))
	_, hasDeadline := detached.Deadline()
	assert.False(t, hasDeadline)
}
