package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"gamehub/models"
	"gamehub/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Profile tabs the browser can restore.
var ProfileTabs = []string{"createGames", "owned", "wishlisted", "created", "reviewed"}

const DefaultProfileTab = "createGames"

var ErrUnknownTab = errors.New("unknown profile tab")

// Manager is the only writer of session state. Each method owns one part:
// SignIn/SignOut the token and user id, SetProfileTab the tab, SaveHints and
// SetGameHint the ownership hints. Partial writes go through a
// load-modify-save under mu so concurrent requests of one browser keep each
// other's changes.
type Manager struct {
	store Store
	mu    sync.Mutex
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Start creates an anonymous session.
func (m *Manager) Start(ctx context.Context) (*models.ClientSession, error) {
	sess := &models.ClientSession{
		ID:         uuid.NewString(),
		ProfileTab: DefaultProfileTab,
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return sess, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*models.ClientSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return m.store.Load(ctx, id)
}

// SignIn binds the session to an authenticated user. Hints from a previous
// user are dropped.
func (m *Manager) SignIn(ctx context.Context, sess *models.ClientSession, userID uint, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess.ClearAuth()
	sess.UserID = userID
	sess.Token = token
	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	utils.Log.WithFields(logrus.Fields{"session_id": sess.ID, "user_id": userID}).Info("Session signed in")
	return nil
}

// SignOut clears everything tied to the user but keeps the session itself.
func (m *Manager) SignOut(ctx context.Context, sess *models.ClientSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID := sess.UserID
	sess.ClearAuth()
	sess.ProfileTab = DefaultProfileTab
	if err := m.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	utils.Log.WithFields(logrus.Fields{"session_id": sess.ID, "user_id": userID}).Info("Session signed out")
	return nil
}

func (m *Manager) SetProfileTab(ctx context.Context, sess *models.ClientSession, tab string) error {
	if !slices.Contains(ProfileTabs, tab) {
		return ErrUnknownTab
	}
	sess.ProfileTab = tab

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.store.Load(ctx, sess.ID)
	if err != nil {
		return err
	}
	stored.ProfileTab = tab
	return m.store.Save(ctx, stored)
}

// SaveHints replaces the stored wishlist/owned hints with the lists in sess;
// token and user id stay as stored. Used after a full resync.
func (m *Manager) SaveHints(ctx context.Context, sess *models.ClientSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.store.Load(ctx, sess.ID)
	if err != nil {
		return err
	}
	if stored.UserID != sess.UserID {
		// Signed out or switched user while the sync was running.
		return nil
	}
	stored.WishlistedIDs = slices.Clone(sess.WishlistedIDs)
	stored.OwnedIDs = slices.Clone(sess.OwnedIDs)
	return m.store.Save(ctx, stored)
}

// SetGameHint applies one game's confirmed status to the stored hints and
// copies the stored lists back into sess, so changes made by other requests
// of the same session survive.
func (m *Manager) SetGameHint(ctx context.Context, sess *models.ClientSession, gameID uint, status models.OwnershipStatus, keepWishlist bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.store.Load(ctx, sess.ID)
	if err != nil {
		return err
	}
	if stored.UserID != sess.UserID {
		return nil
	}
	stored.ApplyHint(gameID, status, keepWishlist)
	if err := m.store.Save(ctx, stored); err != nil {
		return err
	}
	sess.WishlistedIDs = slices.Clone(stored.WishlistedIDs)
	sess.OwnedIDs = slices.Clone(stored.OwnedIDs)
	return nil
}

// Destroy removes the session entirely; the browser's cookie then starts a
// fresh anonymous one.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("destroy session: %w", err)
	}
	utils.LogDebug("Session destroyed", map[string]interface{}{"session_id": id})
	return nil
}
