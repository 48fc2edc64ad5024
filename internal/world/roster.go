package world

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Roster is the server's liveness record: which players are alive, plus the
// id the server assigned to us. The network reader writes it; the tick loop
// only reads.
type Roster struct {
	localID string
	players map[string]bool
	mu      sync.RWMutex
}

type PlayerStatus struct {
	ID    string
	Alive bool
}

type RosterSnapshot struct {
	LocalID string
	Players []PlayerStatus
}

func (s RosterSnapshot) String() string {
	var infos []string
	for _, p := range s.Players {
		state := "alive"
		if !p.Alive {
			state = "dead"
		}
		marker := ""
		if p.ID == s.LocalID {
			marker = "*"
		}
		infos = append(infos, fmt.Sprintf("%s%s:%s", marker, p.ID, state))
	}
	return fmt.Sprintf("Roster [Local: %q] | [Players(%d): %s]", s.LocalID, len(s.Players), strings.Join(infos, ", "))
}

func NewRoster() *Roster {
	return &Roster{players: make(map[string]bool)}
}

func (r *Roster) SetLocalID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.localID = id
}

func (r *Roster) LocalID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.localID
}

func (r *Roster) SetAlive(id string, alive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.players == nil {
		r.players = make(map[string]bool)
	}
	r.players[id] = alive
}

// Replace installs a full server snapshot. Players missing from it are
// dropped.
func (r *Roster) Replace(players map[string]bool) {
	next := make(map[string]bool, len(players))
	for id, alive := range players {
		next[id] = alive
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = next
}

// Remove drops a player that left the server.
func (r *Roster) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}

// LocalAlive reports known=false until both our id and our entry have
// arrived from the server.
func (r *Roster) LocalAlive() (alive bool, known bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.localID == "" {
		return false, false
	}
	alive, known = r.players[r.localID]
	return alive, known
}

func (r *Roster) Snapshot() RosterSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]PlayerStatus, 0, len(r.players))
	for id, alive := range r.players {
		players = append(players, PlayerStatus{ID: id, Alive: alive})
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return RosterSnapshot{LocalID: r.localID, Players: players}
}
