package realtime

import "sync"

type clientSet map[*Client]struct{}

// Registry indexes live clients by identity and by room.
type Registry struct {
	mutex      sync.RWMutex
	byIdentity map[string]clientSet
	rooms      map[string]clientSet
	joined     map[*Client]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byIdentity: map[string]clientSet{},
		rooms:      map[string]clientSet{},
		joined:     map[*Client]map[string]struct{}{},
	}
}

// Register reports whether client is the first live connection of its identity.
func (r *Registry) Register(client *Client) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	identityId := client.Identity.Id
	clients, ok := r.byIdentity[identityId]
	if !ok {
		clients = clientSet{}
		r.byIdentity[identityId] = clients
	}
	clients[client] = struct{}{}
	if _, ok = r.joined[client]; !ok {
		r.joined[client] = map[string]struct{}{}
	}

	return len(clients) == 1
}

// Unregister drops client from every room. It reports whether client was the
// last live connection of its identity; unknown clients report false.
func (r *Registry) Unregister(client *Client) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	rooms, ok := r.joined[client]
	if !ok {
		return false
	}
	for room := range rooms {
		r.leave(room, client)
	}
	delete(r.joined, client)

	identityId := client.Identity.Id
	clients := r.byIdentity[identityId]
	delete(clients, client)
	if len(clients) == 0 {
		delete(r.byIdentity, identityId)
		return true
	}

	return false
}

func (r *Registry) Join(room string, client *Client) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	rooms, ok := r.joined[client]
	if !ok {
		return
	}
	members, ok := r.rooms[room]
	if !ok {
		members = clientSet{}
		r.rooms[room] = members
	}
	members[client] = struct{}{}
	rooms[room] = struct{}{}
}

func (r *Registry) Leave(room string, client *Client) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.leave(room, client)
	if rooms, ok := r.joined[client]; ok {
		delete(rooms, room)
	}
}

func (r *Registry) InRoom(room string, client *Client) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, ok := r.rooms[room][client]
	return ok
}

// Room returns a snapshot of the room members.
func (r *Registry) Room(room string) []*Client {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return snapshot(r.rooms[room])
}

func (r *Registry) Connections(identityId string) []*Client {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return snapshot(r.byIdentity[identityId])
}

func (r *Registry) All() []*Client {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	clients := make([]*Client, 0, len(r.joined))
	for client := range r.joined {
		clients = append(clients, client)
	}
	return clients
}

func (r *Registry) IsOnline(identityId string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.byIdentity[identityId]) > 0
}

func (r *Registry) leave(room string, client *Client) {
	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

func snapshot(set clientSet) []*Client {
	clients := make([]*Client, 0, len(set))
	for client := range set {
		clients = append(clients, client)
	}
	return clients
}
