package ws

import (
	"slices"
	"testing"

	"go.uber.org/zap"
)

func TestRegistryJoinIsIdempotentAndOrdered(t *testing.T) {
	hub := NewHub(zap.NewNop())
	r := NewRegistry()
	a := NewClient(hub, nil, "alice", 1)
	b := NewClient(hub, nil, "bob", 1)

	if !r.Join(b, "room") || !r.Join(a, "room") {
		t.Fatal("first joins should be new memberships")
	}
	if r.Join(a, "room") {
		t.Error("second join should be a no-op")
	}

	members := r.Members("room")
	if len(members) != 2 || members[0] != b || members[1] != a {
		t.Errorf("members not in registration order: %v", members)
	}
	if r.MemberCount("room") != 2 {
		t.Errorf("MemberCount = %d", r.MemberCount("room"))
	}
}

func TestRegistryLeaveAllRemovesEmptyChannels(t *testing.T) {
	hub := NewHub(zap.NewNop())
	r := NewRegistry()
	a := NewClient(hub, nil, "alice", 1)
	b := NewClient(hub, nil, "bob", 1)

	r.Join(a, "alice")
	r.Join(a, "notifications_alice")
	r.Join(a, "shared")
	r.Join(b, "shared")

	left := r.LeaveAll(a)
	if !slices.Equal(left, []string{"alice", "notifications_alice", "shared"}) {
		t.Errorf("left = %v", left)
	}
	if r.ChannelCount() != 1 {
		t.Errorf("ChannelCount = %d, want 1", r.ChannelCount())
	}
	if got := r.Members("shared"); len(got) != 1 || got[0] != b {
		t.Errorf("shared members = %v", got)
	}
	if len(r.Channels(a)) != 0 {
		t.Error("client should have no channels")
	}
	if r.LeaveAll(a) != nil {
		t.Error("second LeaveAll should return nil")
	}
}

func TestRegistryMembersIsSnapshot(t *testing.T) {
	hub := NewHub(zap.NewNop())
	r := NewRegistry()
	a := NewClient(hub, nil, "alice", 1)

	r.Join(a, "room")
	snapshot := r.Members("room")
	r.LeaveAll(a)

	if len(snapshot) != 1 {
		t.Errorf("snapshot changed after leave: %v", snapshot)
	}
	if r.Members("unknown") != nil {
		t.Error("unknown channel should have no members")
	}
}
