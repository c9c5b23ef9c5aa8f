package vo_test

import (
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-hello/internal/models/po"
	"github.com/bionicotaku/lingo-services-hello/internal/models/vo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewGreetingDerivesDisplayName(t *testing.T) {
	now := time.Now().UTC()
	entity := &po.Greeting{
		ID:          uuid.New(),
		Name:        "Ada",
		Message:     po.DefaultGreetingMessage,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	view := vo.NewGreeting(entity)
	require.NotNil(t, view)
	require.Equal(t, entity.ID, view.ID)
	require.Equal(t, "Hello, Ada!", view.DisplayName)
	require.True(t, view.IsPublished)
	require.Equal(t, now, view.CreatedAt)
}

func TestNewGreetingNil(t *testing.T) {
	require.Nil(t, vo.NewGreeting(nil))
}

func TestNewGreetingsSkipsNil(t *testing.T) {
	list := []*po.Greeting{po.NewGreeting("a"), nil, po.NewGreeting("b")}

	views := vo.NewGreetings(list)
	require.Len(t, views, 2)
	require.Equal(t, "Hello, a!", views[0].DisplayName)
	require.Equal(t, "Hello, b!", views[1].DisplayName)
}

func TestNewGreetingsDerivesEachRecordIndependently(t *testing.T) {
	batch := []*po.Greeting{po.NewGreeting("one"), po.NewGreeting("two"), po.NewGreeting("three")}
	reversed := []*po.Greeting{batch[2], batch[1], batch[0]}

	names := func(views []*vo.Greeting) []string {
		out := make([]string, len(views))
		for i, v := range views {
			out[i] = v.DisplayName
		}
		return out
	}
	require.Equal(t, []string{"Hello, one!", "Hello, two!", "Hello, three!"}, names(vo.NewGreetings(batch)))
	require.Equal(t, []string{"Hello, three!", "Hello, two!", "Hello, one!"}, names(vo.NewGreetings(reversed)))
}
