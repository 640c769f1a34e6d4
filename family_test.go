package entangle_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/delaneyj/entangle"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomFamilyMemoises(t *testing.T) {
	rs := entangle.NewSystem()
	var inits atomicCounter
	family := entangle.MakeAtomFamily(rs, entangle.InitFunc(func(key string, args ...any) string {
		inits.inc()
		return "V:" + key
	}))

	k1 := entangle.Must(family.Get("k1"))
	again := entangle.Must(family.Get("k1", "ignored"))
	k2 := entangle.Must(family.Get("k2"))

	assert.Same(t, k1, again)
	assert.NotSame(t, k1, k2)
	assert.Equal(t, "V:k1", k1.Read())
	assert.Equal(t, "V:k2", k2.Read())
	assert.Equal(t, 2, inits.load())

	assert.Equal(t, 2, family.Len())
	assert.True(t, family.Keys().Contains("k1", "k2"))
}

func TestAtomFamilyInitValue(t *testing.T) {
	rs := entangle.NewSystem()
	family := entangle.MakeAtomFamily(rs, entangle.InitValue[int]("ZAKU"))

	unit1 := entangle.Must(family.Get(1))
	unit2 := entangle.Must(family.Get(2))
	unit1.Write("SAZABI")
	assert.Equal(t, "SAZABI", unit1.Read())
	assert.Equal(t, "ZAKU", unit2.Read())
}

type squad struct {
	Name string
	Size int
}

func TestAtomFamilyStructKeys(t *testing.T) {
	rs := entangle.NewSystem()
	family := entangle.MakeAtomFamily(rs, entangle.InitFunc(func(key squad, args ...any) int {
		return key.Size
	}))

	a := entangle.Must(family.Get(squad{"Cyclops", 4}))
	b := entangle.Must(family.Get(squad{"Cyclops", 4}))
	c := entangle.Must(family.Get(squad{"Cyclops", 5}))
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestAtomFamilyConcurrentFirstGet(t *testing.T) {
	rs := entangle.NewSystem()
	var inits atomicCounter
	family := entangle.MakeAtomFamily(rs, entangle.InitFunc(func(key int, args ...any) int {
		inits.inc()
		time.Sleep(time.Millisecond)
		return key
	}))

	const workers = 32
	got := make([]*entangle.Atom[int], workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = entangle.Must(family.Get(7))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, inits.load())
	for _, a := range got {
		assert.Same(t, got[0], a)
	}
}

func TestAtomFamilyFailureIsNotCached(t *testing.T) {
	rs := entangle.NewSystem()
	var inits atomicCounter
	family := entangle.MakeAtomFamily(rs, entangle.InitFunc(func(key string, args ...any) *string {
		inits.inc()
		if inits.load() == 1 {
			return nil
		}
		return &key
	}))

	_, err := family.Get("k")
	assert.ErrorIs(t, err, entangle.ErrInvalidValue)
	assert.Equal(t, 0, family.Len())

	a, err := family.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "k", *a.Read())
	assert.Equal(t, 2, inits.load())
	assert.Equal(t, 1, family.Len())
}

// a panicking build is forgotten like a failing one: the panic reaches the
// caller and the next Get builds a real member
func TestMoleculeFamilyPanicIsNotCached(t *testing.T) {
	rs := entangle.NewSystem()
	var derives atomicCounter
	status := entangle.MakeMoleculeFamily(rs, func(get *entangle.Getter, pilot string, args ...any) string {
		derives.inc()
		if derives.load() == 1 {
			panic("ejected")
		}
		return pilot + " ok"
	})

	assert.PanicsWithValue(t, "ejected", func() {
		status.Get("Char")
	})
	assert.Equal(t, 0, status.Len())

	m, err := status.Get("Char")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Char ok", m.Read())
	assert.Same(t, m, entangle.Must(status.Get("Char")))
	assert.Equal(t, 1, status.Len())
}

// callers waiting on a build that panics get an error, never a nil member
func TestAtomFamilyPanicReleasesWaiters(t *testing.T) {
	rs := entangle.NewSystem()
	entered := make(chan struct{})
	release := make(chan struct{})
	var inits atomicCounter
	family := entangle.MakeAtomFamily(rs, entangle.InitFunc(func(key string, args ...any) string {
		inits.inc()
		if inits.load() == 1 {
			close(entered)
			<-release
			panic("ejected")
		}
		return "V:" + key
	}))

	panicked := make(chan any, 1)
	go func() {
		defer func() { panicked <- recover() }()
		family.Get("k")
	}()
	<-entered

	type result struct {
		a   *entangle.Atom[string]
		err error
	}
	waiter := make(chan result, 1)
	go func() {
		a, err := family.Get("k")
		waiter <- result{a, err}
	}()
	time.Sleep(10 * time.Millisecond)
	close(release)

	assert.Equal(t, "ejected", <-panicked)
	res := <-waiter
	if res.err != nil {
		assert.ErrorIs(t, res.err, entangle.ErrBuildPanicked)
		assert.Nil(t, res.a)
	} else {
		require.NotNil(t, res.a)
		assert.Equal(t, "V:k", res.a.Read())
	}

	a, err := family.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "V:k", a.Read())
}

func TestMoleculeFamily(t *testing.T) {
	rs := entangle.NewSystem()
	hp := entangle.MakeAtomFamily(rs, entangle.InitValue[string](100))

	var derives atomicCounter
	status := entangle.MakeMoleculeFamily(rs, func(get *entangle.Getter, pilot string, args ...any) string {
		derives.inc()
		suffix := ""
		if len(args) > 0 {
			suffix, _ = args[0].(string)
		}
		if entangle.Get(get, entangle.Must(hp.Get(pilot))) <= 0 {
			return pilot + " down" + suffix
		}
		return pilot + " ok" + suffix
	})

	char := entangle.Must(status.Get("Char", "!"))
	assert.Equal(t, "Char ok!", char.Read())
	assert.Same(t, char, entangle.Must(status.Get("Char", "?")))

	entangle.Must(hp.Get("Char")).Write(0)
	assert.Equal(t, "Char down!", char.Read())
	assert.Equal(t, 2, derives.load())
}

func TestAsyncMoleculeFamily(t *testing.T) {
	reg := prometheus.NewRegistry()
	rs := entangle.NewSystem(entangle.WithRegisterer(reg), entangle.WithID("test"))
	base := entangle.Must(entangle.MakeAtom(rs, 10))

	scores := entangle.MakeAsyncMoleculeFamily(rs,
		func(ctx context.Context, get *entangle.Getter, key int, args ...any) (int, error) {
			return entangle.Get(get, base) * key, nil
		},
		entangle.InitFromAtoms(func(get *entangle.Getter, key int, args ...any) int {
			return -entangle.Get(get, base)
		}),
	)

	three := entangle.Must(scores.Get(3))
	assert.Same(t, three, entangle.Must(scores.Get(3)))
	require.Eventually(t, func() bool { return three.Read() == 30 }, time.Second, time.Millisecond)

	// the initialiser's reads are not tracked, only the derivation's
	assert.Equal(t, 1, base.SubscriberCount())

	base.Write(2)
	require.Eventually(t, func() bool { return three.Read() == 6 }, time.Second, time.Millisecond)

	entangle.Must(scores.Get(4))
	expected := `
# HELP entangle_family_members_total Total number of family members constructed
# TYPE entangle_family_members_total counter
entangle_family_members_total{system="test"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "entangle_family_members_total"))
}
