// internal/game/directory_test.go
package game

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rodrigovicente/superfighter-game/internal/models"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewDirectory(testDeckData(), testTiming(), logger)
}

func TestCreateRoomValidation(t *testing.T) {
	d := newTestDirectory(t)

	_, err := d.CreateRoom(models.NewPlayer(nil, "a"), "abc", 9, 5, false, false)
	assert.ErrorIs(t, err, ErrNameTooShort)

	// Sanitization runs before the length check.
	_, err = d.CreateRoom(models.NewPlayer(nil, "a"), "a!@#$%^&*()b", 9, 5, false, false)
	assert.ErrorIs(t, err, ErrNameTooShort)

	_, err = d.CreateRoom(models.NewPlayer(nil, "a"), "battle arena", 9, 5, false, false)
	require.NoError(t, err)

	_, err = d.CreateRoom(models.NewPlayer(nil, "b"), "battle arena", 9, 5, false, false)
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestCreateRoomClampsRounds(t *testing.T) {
	d := newTestDirectory(t)

	r, err := d.CreateRoom(models.NewPlayer(nil, "a"), "clamp high", 500, 5, false, false)
	require.NoError(t, err)
	assert.Equal(t, 49, r.MaxRounds) // 10*5 - 1

	r, err = d.CreateRoom(models.NewPlayer(nil, "a"), "clamp low", 1, 5, false, false)
	require.NoError(t, err)
	assert.Equal(t, 4, r.MaxRounds) // 5 - 1

	r, err = d.CreateRoom(models.NewPlayer(nil, "a"), "defaulted", 0, 0, false, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxPlayers, r.MaxPlayers)
	assert.Equal(t, DefaultMaxRounds, r.MaxRounds)
}

func TestJoinNamedRoom(t *testing.T) {
	d := newTestDirectory(t)

	_, err := d.JoinRoom(models.NewPlayer(nil, "a"), "nowhere", false)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	r, err := d.CreateRoom(models.NewPlayer(nil, "host"), "tiny room", 2, 2, true, false)
	require.NoError(t, err)

	joined, err := d.JoinRoom(models.NewPlayer(nil, "b"), "tiny room", false)
	require.NoError(t, err)
	assert.Same(t, r, joined)

	// Private rooms are joinable by name, just not matchmade. This one is
	// now full.
	_, err = d.JoinRoom(models.NewPlayer(nil, "c"), "tiny room", false)
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestMatchmakingFillsPublicRooms(t *testing.T) {
	d := newTestDirectory(t)

	first, err := d.JoinRoom(models.NewPlayer(nil, "a"), "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, d.RoomCount())
	assert.False(t, first.IsPrivate)

	second, err := d.JoinRoom(models.NewPlayer(nil, "b"), "", false)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, d.RoomCount())
}

func TestMatchmakingSkipsPrivateRooms(t *testing.T) {
	d := newTestDirectory(t)

	private, err := d.CreateRoom(models.NewPlayer(nil, "host"), "hidden lair", 9, 5, true, false)
	require.NoError(t, err)

	r, err := d.JoinRoom(models.NewPlayer(nil, "a"), "", false)
	require.NoError(t, err)
	assert.NotSame(t, private, r)
	assert.Equal(t, 2, d.RoomCount())
}

func TestAnonymousPlayersGetNumberedNames(t *testing.T) {
	d := newTestDirectory(t)

	p0 := models.NewPlayer(nil, "Anonymous ")
	_, err := d.JoinRoom(p0, "", true)
	require.NoError(t, err)
	assert.Equal(t, "Anonymous 0", p0.Username)

	p1 := models.NewPlayer(nil, "Anonymous ")
	_, err = d.JoinRoom(p1, "", true)
	require.NoError(t, err)
	assert.Equal(t, "Anonymous 1", p1.Username)
}

func TestDropIfEmpty(t *testing.T) {
	d := newTestDirectory(t)

	p := models.NewPlayer(nil, "a")
	r, err := d.JoinRoom(p, "", false)
	require.NoError(t, err)

	// Still occupied: nothing happens.
	d.DropIfEmpty(r)
	assert.Equal(t, 1, d.RoomCount())

	r.Mu.Lock()
	empty := r.HandleDisconnect(p)
	r.Mu.Unlock()
	require.True(t, empty)

	d.DropIfEmpty(r)
	assert.Equal(t, 0, d.RoomCount())
}

func TestSanitizeNames(t *testing.T) {
	assert.Equal(t, "battle arena_1-2", SanitizeRoomName("  battle arena_1-2!!  "))
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaa", SanitizeRoomName("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))

	name, anon := SanitizeUsername("   ")
	assert.True(t, anon)
	assert.Equal(t, "Anonymous ", name)

	name, anon = SanitizeUsername(" fighter one ")
	assert.False(t, anon)
	assert.Equal(t, "fighter one", name)
}
