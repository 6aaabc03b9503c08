// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jlsOutput = `{"__version": "2", "jail-information": {"jail": [
  {"jid":3,"hostname":"web1.local","path":"/iocage/jails/web1/root","name":"ioc-web1","state":"ACTIVE","ipv4_addrs":["10.0.0.5","10.0.0.6"],"ipv6_addrs":[]},
  {"jid":4,"hostname":"db","path":"/iocage/jails/db.example/root","name":"ioc-db*example","state":"ACTIVE","ipv4_addrs":[],"ipv6_addrs":["fd00::4"]},
  {"jid":9,"hostname":"other","path":"/jails/other","name":"other","state":"ACTIVE"}
]}}`

func TestParseJLS(t *testing.T) {
	states, err := ParseJLS([]byte(jlsOutput))
	require.NoError(t, err)
	require.Len(t, states, 2)

	assert.Equal(t, State{
		Name:     "web1",
		JID:      3,
		Running:  true,
		Hostname: "web1.local",
		Path:     "/iocage/jails/web1/root",
		IP4:      []string{"10.0.0.5", "10.0.0.6"},
	}, states[0])

	assert.Equal(t, "db.example", states[1].Name)
	assert.Equal(t, []string{"fd00::4"}, states[1].IP6)
	assert.Nil(t, states[1].IP4)
}

func TestParseJLSEmpty(t *testing.T) {
	states, err := ParseJLS([]byte(`{"__version": "2", "jail-information": {"jail": []}}`))
	require.NoError(t, err)
	assert.Empty(t, states)

	_, err = ParseJLS([]byte(`not json`))
	assert.Error(t, err)
}

func TestRuntimeName(t *testing.T) {
	assert.Equal(t, "ioc-db*example", RuntimeName("db.example"))

	name, ok := NameFromRuntime("ioc-db*example")
	assert.True(t, ok)
	assert.Equal(t, "db.example", name)

	_, ok = NameFromRuntime("web1")
	assert.False(t, ok)
	_, ok = NameFromRuntime("ioc-")
	assert.False(t, ok)
}

func TestStateGet(t *testing.T) {
	running := State{Name: "web1", JID: 3, Running: true, IP4: []string{"10.0.0.5"}}
	v, ok := running.Get(KeyRunning)
	assert.True(t, ok)
	assert.Equal(t, true, v)
	v, ok = running.Get(KeyJID)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	v, ok = running.Get(KeyIP4)
	assert.True(t, ok)
	assert.Equal(t, []string{"10.0.0.5"}, v)

	stopped := Stopped("web1")
	v, ok = stopped.Get(KeyRunning)
	assert.True(t, ok)
	assert.Equal(t, false, v)
	_, ok = stopped.Get(KeyJID)
	assert.False(t, ok)
	_, ok = stopped.Get(KeyIP4)
	assert.False(t, ok)
	_, ok = stopped.Get("release")
	assert.False(t, ok)

	assert.True(t, IsKey(KeyIP6))
	assert.False(t, IsKey("name"))
}

func TestRegistry(t *testing.T) {
	snapshot := []State{{Name: "web1", JID: 3, Running: true}}
	calls := 0
	r := NewRegistry(ListerFunc(func(context.Context) ([]State, error) {
		calls++
		return snapshot, nil
	}))

	assert.False(t, r.Has("web1"), "empty before query")
	require.NoError(t, r.Query(context.Background()))
	assert.Equal(t, 1, calls)
	assert.True(t, r.Has("web1"))
	assert.Equal(t, 3, r.Get("web1").JID)

	assert.False(t, r.Has("db1"))
	assert.Equal(t, Stopped("db1"), r.Get("db1"))

	snapshot = nil
	require.NoError(t, r.Query(context.Background()))
	assert.False(t, r.Has("web1"), "query replaces the snapshot")
}

func TestRegistryInject(t *testing.T) {
	snapshot := []State{}
	r := NewRegistry(ListerFunc(func(context.Context) ([]State, error) {
		return snapshot, nil
	}))

	r.Inject("new1", State{JID: 7, Running: true})
	require.NoError(t, r.Query(context.Background()))
	s, ok := r.Lookup("new1")
	require.True(t, ok, "injected survives query")
	assert.Equal(t, 7, s.JID)
	assert.Equal(t, "new1", s.Name)

	snapshot = []State{{Name: "new1", JID: 8, Running: true}}
	require.NoError(t, r.Query(context.Background()))
	assert.Equal(t, 8, r.Get("new1").JID, "live entry shadows injected")
}

func TestRegistryQueryError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRegistry(ListerFunc(func(context.Context) ([]State, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, r.Query(context.Background()), boom)
}

func TestJLSCommandFailure(t *testing.T) {
	j := &JLS{Path: "/nonexistent/jls"}
	_, err := j.List(context.Background())
	assert.Error(t, err)
}
