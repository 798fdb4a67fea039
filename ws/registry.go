package ws

import "slices"

// Registry, kanal adı → client listesi eşlemesi.
//
// Kendi başına thread-safe değildir; tek sahibi Hub'dır ve tüm erişim
// Hub.mu altında yapılır. Kanal üyeleri katılma sırasıyla tutulur.
type Registry struct {
	members map[string][]*Client
	joined  map[*Client]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		members: make(map[string][]*Client),
		joined:  make(map[*Client]map[string]struct{}),
	}
}

// Join, client'ı kanala ekler. Zaten üyeyse hiçbir şey yapmaz ve false döner.
func (r *Registry) Join(c *Client, channel string) bool {
	channels, ok := r.joined[c]
	if !ok {
		channels = make(map[string]struct{})
		r.joined[c] = channels
	}
	if _, exists := channels[channel]; exists {
		return false
	}

	channels[channel] = struct{}{}
	r.members[channel] = append(r.members[channel], c)
	return true
}

// LeaveAll, client'ı katıldığı tüm kanallardan çıkarır ve bu kanalları döner.
// Boş kalan kanallar silinir.
func (r *Registry) LeaveAll(c *Client) []string {
	channels, ok := r.joined[c]
	if !ok {
		return nil
	}
	delete(r.joined, c)

	left := make([]string, 0, len(channels))
	for channel := range channels {
		left = append(left, channel)

		remaining := slices.DeleteFunc(r.members[channel], func(m *Client) bool { return m == c })
		if len(remaining) == 0 {
			delete(r.members, channel)
		} else {
			r.members[channel] = remaining
		}
	}
	slices.Sort(left)
	return left
}

// Members, kanal üyelerinin kopyası. Bilinmeyen kanal için nil.
func (r *Registry) Members(channel string) []*Client {
	return slices.Clone(r.members[channel])
}

// Channels, client'ın üye olduğu kanallar (sıralı).
func (r *Registry) Channels(c *Client) []string {
	channels := make([]string, 0, len(r.joined[c]))
	for channel := range r.joined[c] {
		channels = append(channels, channel)
	}
	slices.Sort(channels)
	return channels
}

func (r *Registry) ChannelCount() int {
	return len(r.members)
}

func (r *Registry) MemberCount(channel string) int {
	return len(r.members[channel])
}
