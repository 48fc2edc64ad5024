package world

import (
	"strings"
	"sync"
	"testing"
)

func TestRoster_LocalAliveUnknownUntilSynced(t *testing.T) {
	r := NewRoster()

	if _, known := r.LocalAlive(); known {
		t.Fatalf("LocalAlive() known = true before any sync")
	}

	r.SetAlive("p1", false)
	if _, known := r.LocalAlive(); known {
		t.Fatalf("LocalAlive() known = true without local id")
	}

	r.SetLocalID("p2")
	if _, known := r.LocalAlive(); known {
		t.Fatalf("LocalAlive() known = true while local entry missing")
	}

	r.SetAlive("p2", true)
	alive, known := r.LocalAlive()
	if !known || !alive {
		t.Fatalf("LocalAlive() = (%t, %t), want (true, true)", alive, known)
	}
}

func TestRoster_ReplaceDropsMissingPlayers(t *testing.T) {
	r := NewRoster()
	r.SetAlive("a", true)
	r.SetAlive("b", true)

	r.Replace(map[string]bool{"b": false, "c": true})

	got := r.Snapshot().Players
	want := []PlayerStatus{{ID: "b", Alive: false}, {ID: "c", Alive: true}}
	if len(got) != len(want) {
		t.Fatalf("Snapshot().Players = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Snapshot().Players = %+v, want %+v", got, want)
		}
	}
}

func TestRoster_ZeroValueUsable(t *testing.T) {
	var r Roster
	r.SetLocalID("me")
	r.SetAlive("me", false)
	alive, known := r.LocalAlive()
	if alive || !known {
		t.Fatalf("LocalAlive() = (%t, %t), want (false, true)", alive, known)
	}
	r.Remove("me")
	if _, known := r.LocalAlive(); known {
		t.Fatalf("LocalAlive() known = true after Remove")
	}
}

func TestRosterSnapshotString_MarksLocalPlayer(t *testing.T) {
	r := NewRoster()
	r.SetLocalID("me")
	r.SetAlive("me", false)
	r.SetAlive("other", true)

	got := r.Snapshot().String()
	for _, want := range []string{"*me:dead", "other:alive", "Players(2)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("Snapshot().String() = %q, want contains %q", got, want)
		}
	}
}

func TestRoster_ConcurrentWritersAndReaders(t *testing.T) {
	r := NewRoster()
	r.SetLocalID("me")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.SetAlive("me", i%2 == 0)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = r.LocalAlive()
			_ = r.Snapshot()
		}()
	}
	wg.Wait()

	if _, known := r.LocalAlive(); !known {
		t.Fatalf("LocalAlive() known = false after writes")
	}
}
