package geolocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

func TestBrowserPositionProvider_Report(t *testing.T) {
	provider := NewBrowserPositionProvider(time.Second)
	want := model.Position{Latitude: -22.9068, Longitude: -43.1729}

	go func() {
		time.Sleep(10 * time.Millisecond)
		provider.Report(want)
	}()

	got, err := provider.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBrowserPositionProvider_FirstAnswerWins(t *testing.T) {
	provider := NewBrowserPositionProvider(0)
	first := model.Position{Latitude: 1, Longitude: 2}

	assert.True(t, provider.Report(first))
	assert.False(t, provider.Report(model.Position{Latitude: 3, Longitude: 4}))
	assert.False(t, provider.Deny("too late"))

	got, err := provider.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestBrowserPositionProvider_Deny(t *testing.T) {
	provider := NewBrowserPositionProvider(0)
	provider.Deny("user blocked location")

	_, err := provider.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, ErrPositionDenied)
}

func TestBrowserPositionProvider_Timeout(t *testing.T) {
	provider := NewBrowserPositionProvider(20 * time.Millisecond)

	_, err := provider.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, provider.Expired())

	assert.False(t, provider.Report(model.Position{Latitude: 1, Longitude: 2}))
	_, err = provider.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBrowserPositionProvider_AnsweredIsNotExpired(t *testing.T) {
	provider := NewBrowserPositionProvider(0)
	assert.False(t, provider.Expired())

	provider.Report(model.Position{Latitude: 1, Longitude: 2})

	assert.False(t, provider.Expired())
}
