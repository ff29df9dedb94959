package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashdeck/internal/decks"
	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/logging"
	"github.com/abhisek/flashdeck/internal/mocktest"
	"github.com/abhisek/flashdeck/internal/router"
	"github.com/abhisek/flashdeck/internal/screen"
	"github.com/abhisek/flashdeck/internal/store"
	"github.com/abhisek/flashdeck/internal/study"
)

func testOptions(t *testing.T) (Options, *flashcard.Deck) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := logging.Discard()
	ds := decks.NewService(st.DeckRepo(), st.CardRepo(), "u1", log)
	d, err := ds.CreateDeck(context.Background(), flashcard.DeckInput{Title: "Spanish"})
	require.NoError(t, err)
	_, err = ds.CreateCard(context.Background(), d.ID, flashcard.Draft{Question: "hola", Answer: "hello"})
	require.NoError(t, err)

	svc := study.NewService(study.Repos{
		Decks:    st.DeckRepo(),
		Cards:    st.CardRepo(),
		Sessions: st.SessionRepo(),
		Reviews:  st.ReviewRepo(),
	}, study.Options{UserID: "u1", DueLimit: 50, Location: time.UTC}, log)

	return Options{
		Study:     svc,
		Tests:     mocktest.NewService(st.DeckRepo(), st.CardRepo(), svc, nil, "u1", log),
		Questions: 5,
	}, d
}

func TestNewAppModel_StartScreen(t *testing.T) {
	opts, d := testOptions(t)

	m := newAppModel(opts)
	assert.Equal(t, "Decks", m.router.Active().Title())

	opts.Start, opts.DeckID, opts.DeckTitle = StartReview, d.ID, d.Title
	m = newAppModel(opts)
	assert.Equal(t, 1, m.router.Depth())
	assert.Contains(t, m.router.Active().Title(), "Spanish")
}

func TestAppModel_DueCountAndSize(t *testing.T) {
	opts, _ := testOptions(t)
	m := newAppModel(opts)

	updated, _ := m.Update(screen.DueCountMsg{Due: 7})
	m = updated.(AppModel)
	assert.Equal(t, 7, m.due)

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(AppModel)
	assert.Equal(t, 100, m.width)
}

func TestAppModel_EscPopsPushedScreen(t *testing.T) {
	opts, _ := testOptions(t)
	m := newAppModel(opts)

	updated, _ := m.Update(router.PushScreenMsg{Screen: navigator{opts: opts}.History()})
	m = updated.(AppModel)
	require.Equal(t, 2, m.router.Depth())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func TestAppModel_PopAtRootQuits(t *testing.T) {
	opts, _ := testOptions(t)
	m := newAppModel(opts)

	_, cmd := m.Update(router.PopScreenMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	opts, _ := testOptions(t)
	m := newAppModel(opts)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
